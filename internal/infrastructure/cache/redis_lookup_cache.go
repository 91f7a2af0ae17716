package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/metabooks/erp/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "lookup:"

// RedisLookupCache implements shared.LookupCache on Redis so several
// server instances share one view of the lookup collections
type RedisLookupCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisLookupCache connects and pings Redis
func NewRedisLookupCache(cfg RedisConfig) (*RedisLookupCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisLookupCacheWithClient(client, ""), nil
}

// NewRedisLookupCacheWithClient wraps an existing client
func NewRedisLookupCacheWithClient(client *redis.Client, keyPrefix string) *RedisLookupCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisLookupCache{client: client, keyPrefix: keyPrefix}
}

// Get implements shared.LookupCache
func (c *RedisLookupCache) Get(ctx context.Context, resource string) (shared.References, bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+resource).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read lookup cache: %w", err)
	}

	var refs shared.References
	if err := json.Unmarshal(data, &refs); err != nil {
		// a corrupt entry is treated as a miss and dropped
		_ = c.client.Del(ctx, c.keyPrefix+resource).Err()
		return nil, false, nil
	}
	return refs, true, nil
}

// Set implements shared.LookupCache
func (c *RedisLookupCache) Set(ctx context.Context, resource string, refs shared.References, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(refs)
	if err != nil {
		return fmt.Errorf("failed to encode lookup collection: %w", err)
	}
	if err := c.client.Set(ctx, c.keyPrefix+resource, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write lookup cache: %w", err)
	}
	return nil
}

// Invalidate implements shared.LookupCache
func (c *RedisLookupCache) Invalidate(ctx context.Context, resource string) error {
	if err := c.client.Del(ctx, c.keyPrefix+resource).Err(); err != nil {
		return fmt.Errorf("failed to invalidate lookup cache: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisLookupCache) Close() error {
	return c.client.Close()
}
