package records

import (
	"context"

	"github.com/metabooks/erp/internal/domain/shared"
	"golang.org/x/sync/errgroup"
)

// Payload is the flat write body sent for a record: scalar fields and
// foreign-key ids only.
type Payload map[string]any

// Source is the data collaborator of a collection
type Source[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, payload Payload) (T, error)
	Update(ctx context.Context, id uint, payload Payload) (T, error)
	Delete(ctx context.Context, id uint) error
}

// Transport is the type-erased REST collaborator. Decoding into out is the
// transport's job so that one transport serves every entity type.
type Transport interface {
	List(ctx context.Context, path string, out any) error
	Create(ctx context.Context, path string, payload Payload, out any) error
	Update(ctx context.Context, path string, id uint, payload Payload, out any) error
	Delete(ctx context.Context, path string, id uint) error
}

// LookupSource fetches the lookup collection of a resource
type LookupSource interface {
	Lookup(ctx context.Context, resource string) (shared.References, error)
}

// LookupFunc adapts a function to LookupSource
type LookupFunc func(ctx context.Context, resource string) (shared.References, error)

// Lookup implements LookupSource
func (f LookupFunc) Lookup(ctx context.Context, resource string) (shared.References, error) {
	return f(ctx, resource)
}

// RemoteSource implements Source over a Transport
type RemoteSource[T any] struct {
	transport Transport
	path      string
}

// NewRemoteSource creates a Source for the records served at path
func NewRemoteSource[T any](t Transport, path string) *RemoteSource[T] {
	return &RemoteSource[T]{transport: t, path: path}
}

// List implements Source
func (s *RemoteSource[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := s.transport.List(ctx, s.path, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Create implements Source
func (s *RemoteSource[T]) Create(ctx context.Context, payload Payload) (T, error) {
	var out T
	err := s.transport.Create(ctx, s.path, payload, &out)
	return out, err
}

// Update implements Source
func (s *RemoteSource[T]) Update(ctx context.Context, id uint, payload Payload) (T, error) {
	var out T
	err := s.transport.Update(ctx, s.path, id, payload, &out)
	return out, err
}

// Delete implements Source
func (s *RemoteSource[T]) Delete(ctx context.Context, id uint) error {
	return s.transport.Delete(ctx, s.path, id)
}

// LoadLookups fetches every named lookup collection concurrently. Any
// failure fails the whole load.
func LoadLookups(ctx context.Context, src LookupSource, resources []string) (shared.LabelIndex, error) {
	results := make([]shared.References, len(resources))

	g, gctx := errgroup.WithContext(ctx)
	for i, res := range resources {
		g.Go(func() error {
			refs, err := src.Lookup(gctx, res)
			if err != nil {
				return &LookupError{Resource: res, Err: err}
			}
			results[i] = refs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	index := make(shared.LabelIndex, len(resources))
	for i, res := range resources {
		index[res] = results[i]
	}
	return index, nil
}
