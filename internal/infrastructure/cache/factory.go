package cache

import (
	"fmt"

	"github.com/metabooks/erp/internal/domain/shared"
	"github.com/metabooks/erp/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Factory creates the lookup cache based on configuration
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption configures a Factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-process cache. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a Redis cache when Redis is enabled and reachable and
// the in-memory cache otherwise
func (f *Factory) Create() (shared.LookupCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory lookup cache")
		return NewInMemoryLookupCache(f.logger), nil
	}

	c, err := NewRedisLookupCache(RedisConfig{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("Using Redis lookup cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for lookup cache but unavailable: %w", err)
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory lookup cache. "+
		"Instances will not share invalidations.",
		zap.Error(err),
	)
	return NewInMemoryLookupCache(f.logger), nil
}
