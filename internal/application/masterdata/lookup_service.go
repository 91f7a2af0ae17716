// Package masterdata holds the server-side services behind the record and
// lookup endpoints.
package masterdata

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/metabooks/erp/internal/domain/shared"
	"github.com/metabooks/erp/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ListFunc fetches the current lookup collection of one resource
type ListFunc func(ctx context.Context) (shared.References, error)

// LookupService serves the {id, label} collections that back pickers and
// denormalized display names. Collections are cached until a write to the
// resource invalidates them.
type LookupService struct {
	mu      sync.RWMutex
	sources map[string]ListFunc
	cache   shared.LookupCache
	ttl     time.Duration
	logger  *zap.Logger
}

// NewLookupService creates a LookupService. A nil cache disables caching.
func NewLookupService(cache shared.LookupCache, ttl time.Duration, logger *zap.Logger) *LookupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupService{
		sources: make(map[string]ListFunc),
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

// Register makes resource available as a lookup collection
func (s *LookupService) Register(resource string, list ListFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[resource] = list
}

// Resources returns the registered resource names, sorted
func (s *LookupService) Resources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.sources))
	for r := range s.sources {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the collection of resource, from cache when possible
func (s *LookupService) Lookup(ctx context.Context, resource string) (refs shared.References, err error) {
	s.mu.RLock()
	list, ok := s.sources[resource]
	s.mu.RUnlock()
	if !ok {
		return nil, shared.ErrUnknownResource.WithMessage(fmt.Sprintf("unknown lookup resource %q", resource))
	}

	ctx, span := telemetry.StartSpan(ctx, "lookups.get", attribute.String("resource", resource))
	defer telemetry.End(span, &err)

	if s.cache != nil {
		cached, hit, cerr := s.cache.Get(ctx, resource)
		if cerr != nil {
			s.logger.Warn("Lookup cache read failed", zap.String("resource", resource), zap.Error(cerr))
		} else if hit {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return cached, nil
		}
	}

	refs, err = list(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", resource, err)
	}
	if s.cache != nil {
		if cerr := s.cache.Set(ctx, resource, refs, s.ttl); cerr != nil {
			s.logger.Warn("Lookup cache write failed", zap.String("resource", resource), zap.Error(cerr))
		}
	}
	return refs, nil
}

// Index fetches several collections concurrently into a LabelIndex
func (s *LookupService) Index(ctx context.Context, resources []string) (shared.LabelIndex, error) {
	results := make([]shared.References, len(resources))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range resources {
		g.Go(func() error {
			refs, err := s.Lookup(gctx, r)
			if err != nil {
				return err
			}
			results[i] = refs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	idx := make(shared.LabelIndex, len(resources))
	for i, r := range resources {
		idx[r] = results[i]
	}
	return idx, nil
}

// Invalidate drops the cached collection of resource
func (s *LookupService) Invalidate(ctx context.Context, resource string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, resource); err != nil {
		s.logger.Warn("Lookup cache invalidation failed", zap.String("resource", resource), zap.Error(err))
	}
}
