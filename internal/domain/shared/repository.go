package shared

import (
	"context"
	"time"
)

// RecordRepository is the persistence contract for one entity type
type RecordRepository[T Entity] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, id uint, record *T) error
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
}

// LookupCache stores fetched lookup collections per resource
type LookupCache interface {
	// Get returns the cached collection and whether it was present
	Get(ctx context.Context, resource string) (References, bool, error)

	// Set stores a collection with a TTL
	Set(ctx context.Context, resource string, refs References, ttl time.Duration) error

	// Invalidate drops the collection for a resource
	Invalidate(ctx context.Context, resource string) error

	// Close releases resources
	Close() error
}
