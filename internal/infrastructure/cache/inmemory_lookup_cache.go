package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/metabooks/erp/internal/domain/shared"
	"go.uber.org/zap"
)

const defaultCleanupInterval = 30 * time.Second

// InMemoryLookupCache implements shared.LookupCache inside the process.
// It is used when Redis is disabled or unreachable.
type InMemoryLookupCache struct {
	entries sync.Map // resource -> *cacheEntry
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

type cacheEntry struct {
	refs      shared.References
	expiresAt time.Time
}

func (e *cacheEntry) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// NewInMemoryLookupCache creates the cache and starts its cleanup loop
func NewInMemoryLookupCache(logger *zap.Logger) *InMemoryLookupCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &InMemoryLookupCache{
		logger: logger,
		stopCh: make(chan struct{}),
	}
	go c.cleanupLoop(defaultCleanupInterval)
	return c
}

// Get implements shared.LookupCache
func (c *InMemoryLookupCache) Get(_ context.Context, resource string) (shared.References, bool, error) {
	if v, ok := c.entries.Load(resource); ok {
		entry := v.(*cacheEntry)
		if !entry.isExpired(time.Now()) {
			atomic.AddInt64(&c.hits, 1)
			return clone(entry.refs), true, nil
		}
		c.entries.Delete(resource)
	}
	atomic.AddInt64(&c.misses, 1)
	return nil, false, nil
}

// Set implements shared.LookupCache
func (c *InMemoryLookupCache) Set(_ context.Context, resource string, refs shared.References, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.entries.Store(resource, &cacheEntry{refs: clone(refs), expiresAt: time.Now().Add(ttl)})
	c.logger.Debug("Cached lookup collection",
		zap.String("resource", resource),
		zap.Int("count", len(refs)),
		zap.Duration("ttl", ttl))
	return nil
}

// Invalidate implements shared.LookupCache
func (c *InMemoryLookupCache) Invalidate(_ context.Context, resource string) error {
	c.entries.Delete(resource)
	return nil
}

// Close stops the cleanup loop
func (c *InMemoryLookupCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns cache hit and miss counts
func (c *InMemoryLookupCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

func (c *InMemoryLookupCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopCh:
			return
		case now := <-ticker.C:
			c.evictExpired(now)
		}
	}
}

func (c *InMemoryLookupCache) evictExpired(now time.Time) {
	c.entries.Range(func(key, v any) bool {
		if v.(*cacheEntry).isExpired(now) {
			c.entries.Delete(key)
		}
		return true
	})
}

// callers may sort or filter what they get back
func clone(refs shared.References) shared.References {
	if refs == nil {
		return nil
	}
	out := make(shared.References, len(refs))
	copy(out, refs)
	return out
}
