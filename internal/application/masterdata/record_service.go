package masterdata

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/metabooks/erp/internal/application/records"
	"github.com/metabooks/erp/internal/domain/lineitem"
	"github.com/metabooks/erp/internal/domain/masterdata"
	"github.com/metabooks/erp/internal/domain/shared"
	"github.com/metabooks/erp/internal/infrastructure/logger"
	"github.com/metabooks/erp/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ReferenceCounter is implemented by repositories that can count foreign
// key references without loading the rows
type ReferenceCounter interface {
	Referenced(ctx context.Context, column string, id uint) (int64, error)
}

// Dependent is a resource whose records may point at records of other
// resources
type Dependent interface {
	Resource() string
	DependsOn(resource string) bool
	Uses(ctx context.Context, resource string, id uint) (bool, error)
}

// RecordService implements the CRUD operations of one resource on top of
// its schema. Reads carry denormalized display names; writes are checked
// against the lookup collections, have line totals recomputed and
// invalidate the cached lookup collection of the resource.
type RecordService[T shared.Entity] struct {
	schema     *records.Schema[T]
	repo       shared.RecordRepository[T]
	lookups    *LookupService
	dependents []Dependent
	logger     *zap.Logger

	// references shown on read, and checked on write
	displayLookups []string
	writeLookups   []string
}

// NewRecordService creates a RecordService and registers the resource with
// the lookup service
func NewRecordService[T shared.Entity](schema *records.Schema[T], repo shared.RecordRepository[T], lookups *LookupService, log *zap.Logger) *RecordService[T] {
	if log == nil {
		log = zap.NewNop()
	}
	s := &RecordService[T]{
		schema:       schema,
		repo:         repo,
		lookups:      lookups,
		logger:       log.With(zap.String("resource", schema.Resource)),
		writeLookups: schema.Lookups(),
	}
	for _, f := range schema.Fields {
		if f.Kind == records.KindReference && !slices.Contains(s.displayLookups, f.Lookup) {
			s.displayLookups = append(s.displayLookups, f.Lookup)
		}
	}
	lookups.Register(schema.Resource, s.References)
	return s
}

// Schema returns the resource schema
func (s *RecordService[T]) Schema() *records.Schema[T] { return s.schema }

// Module returns the module the resource belongs to
func (s *RecordService[T]) Module() string { return s.schema.Module }

// Resource implements Dependent
func (s *RecordService[T]) Resource() string { return s.schema.Resource }

// AddDependent registers a resource whose records must not be left
// pointing at a deleted record of this one
func (s *RecordService[T]) AddDependent(d Dependent) {
	s.dependents = append(s.dependents, d)
}

// References lists the records as a lookup collection
func (s *RecordService[T]) References(ctx context.Context) (shared.References, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return shared.ReferencesOf(all), nil
}

// List returns every record, or those matching search
func (s *RecordService[T]) List(ctx context.Context, search string) (_ []T, err error) {
	ctx, span := s.span(ctx, "records.list")
	defer telemetry.End(span, &err)

	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	// names first, so search also matches the referenced records
	if err := s.denormalize(ctx, all); err != nil {
		return nil, err
	}
	return records.Filter(all, search, s.schema.Search), nil
}

// Get returns one record
func (s *RecordService[T]) Get(ctx context.Context, id uint) (_ *T, err error) {
	ctx, span := s.span(ctx, "records.get", attribute.Int64("id", int64(id)))
	defer telemetry.End(span, &err)

	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.notFound(err, id)
	}
	one := []T{*found}
	if err := s.denormalize(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// Create validates and stores a new record
func (s *RecordService[T]) Create(ctx context.Context, rec *T) (_ *T, err error) {
	ctx, span := s.span(ctx, "records.create")
	defer telemetry.End(span, &err)

	if err := s.prepare(ctx, rec); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	s.lookups.Invalidate(ctx, s.Resource())

	id := (*rec).GetID()
	logger.WithLogger(ctx, s.logger).Info("Record created", zap.Uint("id", id))
	return s.Get(ctx, id)
}

// Update validates and overwrites record id
func (s *RecordService[T]) Update(ctx context.Context, id uint, rec *T) (_ *T, err error) {
	ctx, span := s.span(ctx, "records.update", attribute.Int64("id", int64(id)))
	defer telemetry.End(span, &err)

	if err := s.prepare(ctx, rec); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, rec); err != nil {
		return nil, s.notFound(err, id)
	}
	s.lookups.Invalidate(ctx, s.Resource())

	logger.WithLogger(ctx, s.logger).Info("Record updated", zap.Uint("id", id))
	return s.Get(ctx, id)
}

// Delete removes record id unless another resource still points at it
func (s *RecordService[T]) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := s.span(ctx, "records.delete", attribute.Int64("id", int64(id)))
	defer telemetry.End(span, &err)

	for _, d := range s.dependents {
		used, err := d.Uses(ctx, s.Resource(), id)
		if err != nil {
			return fmt.Errorf("check %s references: %w", d.Resource(), err)
		}
		if used {
			return shared.ErrReferenceInUse.WithMessage(
				fmt.Sprintf("%s #%d is still used by %s", s.schema.Noun, id, d.Resource()))
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.notFound(err, id)
	}
	s.lookups.Invalidate(ctx, s.Resource())

	logger.WithLogger(ctx, s.logger).Info("Record deleted", zap.Uint("id", id))
	return nil
}

// DependsOn implements Dependent
func (s *RecordService[T]) DependsOn(resource string) bool {
	if s.schema.HasLines() && resource == masterdata.ResourceItems {
		return true
	}
	return slices.Contains(s.displayLookups, resource)
}

// Uses implements Dependent
func (s *RecordService[T]) Uses(ctx context.Context, resource string, id uint) (bool, error) {
	var scan []records.Field[T]
	counter, canCount := s.repo.(ReferenceCounter)
	for _, f := range s.schema.Fields {
		if f.Kind != records.KindReference || f.Lookup != resource {
			continue
		}
		if !canCount {
			scan = append(scan, f)
			continue
		}
		n, err := counter.Referenced(ctx, f.Key, id)
		if err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}

	scanLines := s.schema.HasLines() && resource == masterdata.ResourceItems
	if len(scan) == 0 && !scanLines {
		return false, nil
	}

	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return false, err
	}
	for _, rec := range all {
		for _, f := range scan {
			if ref, _ := f.Value(rec).(uint); ref == id {
				return true, nil
			}
		}
		if scanLines {
			for _, row := range s.schema.Lines(rec) {
				if row.ItemID == id {
					return true, nil
				}
			}
		}
	}
	return false, nil
}

// Link registers every service as a dependent of the services it points at
func Link(services ...interface {
	Dependent
	AddDependent(Dependent)
}) {
	for _, parent := range services {
		for _, child := range services {
			if child != parent && child.DependsOn(parent.Resource()) {
				parent.AddDependent(child)
			}
		}
	}
}

func (s *RecordService[T]) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("resource", s.Resource()))
	return telemetry.StartSpan(ctx, name, attrs...)
}

func (s *RecordService[T]) notFound(err error, id uint) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.ErrNotFound.WithMessage(fmt.Sprintf("%s #%d not found", s.schema.Noun, id))
	}
	return err
}

func (s *RecordService[T]) denormalize(ctx context.Context, recs []T) error {
	if len(recs) == 0 || len(s.displayLookups) == 0 {
		return nil
	}
	if _, ok := any(&recs[0]).(shared.Denormalizer); !ok {
		return nil
	}
	idx, err := s.lookups.Index(ctx, s.displayLookups)
	if err != nil {
		return fmt.Errorf("resolve display names: %w", err)
	}
	for i := range recs {
		any(&recs[i]).(shared.Denormalizer).Denormalize(idx)
	}
	return nil
}

// prepare normalizes a decoded write payload and checks what binding tags
// cannot: choice values, complete line rows and that every referenced
// record exists
func (s *RecordService[T]) prepare(ctx context.Context, rec *T) error {
	if r, ok := any(rec).(interface{ ResetRecord() }); ok {
		r.ResetRecord()
	}
	if st, ok := any(rec).(shared.LineStamper); ok {
		st.StampTotals()
	}

	for _, f := range s.schema.Fields {
		switch f.Kind {
		case records.KindChoice:
			if v, _ := f.Value(*rec).(string); v != "" && !slices.Contains(f.Choices, v) {
				return shared.ErrInvalidInput.WithMessage(
					fmt.Sprintf("%s must be one of %s", f.Label, strings.Join(f.Choices, ", ")))
			}
		case records.KindDecimal:
			if d, ok := f.Value(*rec).(decimal.Decimal); ok && d.IsNegative() {
				return shared.ErrInvalidInput.WithMessage(fmt.Sprintf("%s must not be negative", f.Label))
			}
		}
	}

	var rows []lineitem.Row
	if s.schema.HasLines() {
		rows = s.schema.Lines(*rec)
		if len(rows) == 0 {
			return shared.ErrValidation.WithMessage("At least one line item is required")
		}
		for i, row := range rows {
			if row.Quantity.IsNegative() || row.UnitPrice.IsNegative() {
				return shared.ErrInvalidInput.WithMessage(
					fmt.Sprintf("Line %d has a negative quantity or unit price", i+1))
			}
			if missing := row.Missing(); len(missing) > 0 {
				return shared.ErrValidation.WithMessage(
					fmt.Sprintf("Line %d is missing %s", i+1, strings.Join(missing, ", ")))
			}
		}
	}

	if len(s.writeLookups) == 0 {
		return nil
	}
	idx, err := s.lookups.Index(ctx, s.writeLookups)
	if err != nil {
		return fmt.Errorf("load references: %w", err)
	}
	for _, f := range s.schema.Fields {
		if f.Kind != records.KindReference {
			continue
		}
		id, _ := f.Value(*rec).(uint)
		if id == 0 {
			continue
		}
		if _, ok := idx[f.Lookup].Find(id); !ok {
			return shared.ErrUnknownReference.WithMessage(fmt.Sprintf("%s #%d does not exist", f.Noun, id))
		}
	}
	for i, row := range rows {
		if _, ok := idx[masterdata.ResourceItems].Find(row.ItemID); !ok {
			return shared.ErrUnknownReference.WithMessage(
				fmt.Sprintf("Item #%d on line %d does not exist", row.ItemID, i+1))
		}
	}
	return nil
}
