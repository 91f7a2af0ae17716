package records

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/metabooks/erp/internal/domain/shared"
	"go.uber.org/zap"
)

type collectionOptions struct {
	confirmer Confirmer
	notifier  Notifier
	logger    *zap.Logger
}

// Option configures a Collection
type Option func(*collectionOptions)

// WithConfirmer sets the delete confirmation prompt. Without one every
// delete is refused.
func WithConfirmer(c Confirmer) Option {
	return func(o *collectionOptions) {
		o.confirmer = c
	}
}

// WithNotifier sets the receiver of load and mutation notices
func WithNotifier(n Notifier) Option {
	return func(o *collectionOptions) {
		o.notifier = n
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(o *collectionOptions) {
		o.logger = l
	}
}

// Collection is the list-and-search container of one entity type. It owns
// the canonical list, the search text and the modal state. The list is only
// ever replaced by a fetch, so after a mutation it reflects the server.
type Collection[T shared.Entity] struct {
	schema  *Schema[T]
	source  Source[T]
	lookups LookupSource
	confirm Confirmer
	notify  Notifier
	log     *zap.Logger

	mu      sync.Mutex
	records []T
	loaded  bool
	query   string
	state   FormState[T]
	form    *Form[T]
}

// NewCollection creates a closed, empty collection
func NewCollection[T shared.Entity](schema *Schema[T], source Source[T], lookups LookupSource, opts ...Option) *Collection[T] {
	o := collectionOptions{confirmer: denyAll, notifier: discard, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection[T]{
		schema:  schema,
		source:  source,
		lookups: lookups,
		confirm: o.confirmer,
		notify:  o.notifier,
		log:     o.logger.With(zap.String("resource", schema.Resource)),
		state:   Closed[T](),
	}
}

// Schema returns the entity schema
func (c *Collection[T]) Schema() *Schema[T] {
	return c.schema
}

// Load fetches the full list and replaces the canonical slice. On failure
// the previous list is kept.
func (c *Collection[T]) Load(ctx context.Context) error {
	list, err := c.source.List(ctx)
	if err != nil {
		c.log.Warn("Failed to load records", zap.Error(err))
		c.notify.Notify(ctx, Notice{
			Level:   LevelError,
			Title:   "Failed to load " + c.schema.Title,
			Message: err.Error(),
		})
		return fmt.Errorf("loading %s: %w", c.schema.Resource, err)
	}

	c.mu.Lock()
	c.records = list
	c.loaded = true
	c.mu.Unlock()

	c.log.Debug("Records loaded", zap.Int("count", len(list)))
	c.notify.Notify(ctx, Notice{
		Level:   LevelInfo,
		Title:   c.schema.Title,
		Message: fmt.Sprintf("%d loaded", len(list)),
	})
	return nil
}

// Loaded reports whether a load has succeeded
func (c *Collection[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// SetQuery sets the search text
func (c *Collection[T]) SetQuery(q string) {
	c.mu.Lock()
	c.query = q
	c.mu.Unlock()
}

// Query returns the search text
func (c *Collection[T]) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Records returns the canonical list
func (c *Collection[T]) Records() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.records))
	copy(out, c.records)
	return out
}

// Visible returns the records matching the search text
func (c *Collection[T]) Visible() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Filter(c.records, c.query, c.schema.Search)
}

// Find returns the loaded record with the given id
func (c *Collection[T]) Find(id uint) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.find(id)
}

func (c *Collection[T]) find(id uint) (T, bool) {
	for _, r := range c.records {
		if r.GetID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// State returns the modal state
func (c *Collection[T]) State() FormState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Form returns the open form
func (c *Collection[T]) Form() (*Form[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form, c.form != nil
}

// StartCreate opens an empty form
func (c *Collection[T]) StartCreate(ctx context.Context) (*Form[T], error) {
	return c.open(ctx, Creating[T]())
}

// StartEdit opens a form pre-filled from the loaded record with id
func (c *Collection[T]) StartEdit(ctx context.Context, id uint) (*Form[T], error) {
	rec, ok := c.Find(id)
	if !ok {
		return nil, shared.ErrNotFound.WithMessage(fmt.Sprintf("%s #%d is not in the list", c.schema.Noun, id))
	}
	return c.open(ctx, Editing(rec))
}

// open fetches the lookups the schema needs and only then switches state,
// so a failed fetch leaves the modal as it was
func (c *Collection[T]) open(ctx context.Context, state FormState[T]) (*Form[T], error) {
	index, err := LoadLookups(ctx, c.lookups, c.schema.Lookups())
	if err != nil {
		c.log.Warn("Failed to load lookups", zap.Error(err))
		c.notify.Notify(ctx, Notice{
			Level:   LevelError,
			Title:   "Failed to open " + c.schema.Noun,
			Message: err.Error(),
		})
		return nil, err
	}

	form := NewForm(c.schema, state, index)
	c.mu.Lock()
	c.state = state
	c.form = form
	c.mu.Unlock()
	return form, nil
}

// Cancel closes the modal without saving
func (c *Collection[T]) Cancel() {
	c.mu.Lock()
	c.state = Closed[T]()
	c.form = nil
	c.mu.Unlock()
}

// Save submits the open form through Create or Update. The modal closes
// and the list is re-fetched only when the call succeeds; on any failure the
// form stays open with its values.
func (c *Collection[T]) Save(ctx context.Context) error {
	c.mu.Lock()
	form := c.form
	c.mu.Unlock()
	if form == nil {
		return ErrFormClosed
	}

	state := form.State()
	err := form.Submit(ctx, func(ctx context.Context, payload Payload) error {
		if rec, ok := state.Record(); ok {
			_, err := c.source.Update(ctx, rec.GetID(), payload)
			return err
		}
		_, err := c.source.Create(ctx, payload)
		return err
	})

	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		c.notify.Notify(ctx, Notice{
			Level:   LevelWarning,
			Title:   "Please fill all required fields",
			Message: verr.Error(),
		})
		return err
	case err != nil:
		c.log.Warn("Failed to save record", zap.String("mode", state.Mode().String()), zap.Error(err))
		c.notify.Notify(ctx, Notice{
			Level:   LevelError,
			Title:   "Failed to save " + c.schema.Noun,
			Message: err.Error(),
		})
		return err
	}

	c.mu.Lock()
	if c.form == form {
		c.state = Closed[T]()
		c.form = nil
	}
	c.mu.Unlock()

	verb := "created"
	if state.Mode() == ModeEditing {
		verb = "updated"
	}
	c.notify.Notify(ctx, Notice{
		Level:   LevelSuccess,
		Title:   c.schema.Noun + " " + verb,
		Message: fmt.Sprintf("%s %s successfully", c.schema.Noun, verb),
	})

	if err := c.Load(ctx); err != nil {
		return fmt.Errorf("%s %s but reload failed: %w", c.schema.Noun, verb, err)
	}
	return nil
}

// Delete asks for confirmation, deletes the record and re-fetches the list
func (c *Collection[T]) Delete(ctx context.Context, id uint) error {
	label := fmt.Sprintf("#%d", id)
	if rec, ok := c.Find(id); ok {
		label = rec.Label()
	}

	ok, err := c.confirm.Confirm(ctx, fmt.Sprintf("Delete %s %q?", c.schema.Noun, label))
	if err != nil {
		return fmt.Errorf("confirming delete: %w", err)
	}
	if !ok {
		return ErrDeleteCanceled
	}

	if err := c.source.Delete(ctx, id); err != nil {
		c.log.Warn("Failed to delete record", zap.Uint("id", id), zap.Error(err))
		c.notify.Notify(ctx, Notice{
			Level:   LevelError,
			Title:   "Failed to delete " + c.schema.Noun,
			Message: err.Error(),
		})
		return err
	}

	c.notify.Notify(ctx, Notice{
		Level:   LevelSuccess,
		Title:   c.schema.Noun + " deleted",
		Message: fmt.Sprintf("%s %s deleted successfully", c.schema.Noun, label),
	})
	if err := c.Load(ctx); err != nil {
		return fmt.Errorf("%s deleted but reload failed: %w", c.schema.Noun, err)
	}
	return nil
}
