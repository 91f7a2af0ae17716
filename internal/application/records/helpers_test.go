package records

import (
	"context"
	"sort"
	"sync"

	"github.com/metabooks/erp/internal/domain/lineitem"
	"github.com/metabooks/erp/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// stockItem is a minimal entity used across the package tests
type stockItem struct {
	ID      uint
	Name    string
	Code    string
	Qty     decimal.Decimal
	ShelfID uint
	Shelf   string // display name, never written
}

func (s stockItem) GetID() uint   { return s.ID }
func (s stockItem) Label() string { return s.Name }

// order is a minimal line-item document
type order struct {
	ID         uint
	Number     string
	VendorID   uint
	VendorName string
	Lines      []lineitem.Row
}

func (o order) GetID() uint   { return o.ID }
func (o order) Label() string { return o.Number }

func stockSchema() *Schema[stockItem] {
	return &Schema[stockItem]{
		Module:   "inventory",
		Resource: "stock",
		Noun:     "Item",
		Title:    "Items",
		Fields: []Field[stockItem]{
			Text("name", "Name", func(s stockItem) string { return s.Name }),
			Text("code", "Code", func(s stockItem) string { return s.Code }).Optional(),
			Decimal("qty", "Quantity", func(s stockItem) decimal.Decimal { return s.Qty }),
			Ref("shelf_id", "Shelf", "shelves", "Shelf", func(s stockItem) uint { return s.ShelfID }).Optional(),
		},
		Columns: []Column[stockItem]{
			{Title: "Name", Text: func(s stockItem) string { return s.Name }},
			{Title: "Qty", Text: func(s stockItem) string { return s.Qty.String() }},
		},
		Search: func(s stockItem) []string { return []string{s.Name, s.Code} },
	}
}

func orderSchema() *Schema[order] {
	return &Schema[order]{
		Module:   "purchasing",
		Resource: "orders",
		Noun:     "Order",
		Title:    "Orders",
		Fields: []Field[order]{
			Text("number", "Number", func(o order) string { return o.Number }),
			Ref("vendor_id", "Vendor", "vendors", "Vendor", func(o order) uint { return o.VendorID }),
		},
		Search: func(o order) []string { return []string{o.Number, o.VendorName} },
		Lines:  func(o order) []lineitem.Row { return o.Lines },
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// memorySource is an in-memory Source that builds records from payloads,
// the way a backend would
type memorySource[T shared.Entity] struct {
	mu      sync.Mutex
	next    uint
	records map[uint]T
	build   func(id uint, p Payload) T

	creates  []Payload
	updates  []Payload
	listErr  error
	writeErr error
	lists    int
}

func newMemorySource[T shared.Entity](build func(id uint, p Payload) T, seed ...T) *memorySource[T] {
	s := &memorySource[T]{records: make(map[uint]T), build: build}
	for _, r := range seed {
		s.records[r.GetID()] = r
		s.next = max(s.next, r.GetID())
	}
	return s
}

func (s *memorySource[T]) List(context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.listErr != nil {
		return nil, s.listErr
	}
	ids := make([]uint, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.records[id])
	}
	return out, nil
}

func (s *memorySource[T]) Create(_ context.Context, p Payload) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates = append(s.creates, p)
	if s.writeErr != nil {
		var zero T
		return zero, s.writeErr
	}
	s.next++
	rec := s.build(s.next, p)
	s.records[s.next] = rec
	return rec, nil
}

func (s *memorySource[T]) Update(_ context.Context, id uint, p Payload) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, p)
	if s.writeErr != nil {
		var zero T
		return zero, s.writeErr
	}
	if _, ok := s.records[id]; !ok {
		var zero T
		return zero, shared.ErrNotFound
	}
	rec := s.build(id, p)
	s.records[id] = rec
	return rec, nil
}

func (s *memorySource[T]) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	if _, ok := s.records[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func buildStockItem(id uint, p Payload) stockItem {
	return stockItem{
		ID:      id,
		Name:    p["name"].(string),
		Code:    p["code"].(string),
		Qty:     p["qty"].(decimal.Decimal),
		ShelfID: p["shelf_id"].(uint),
	}
}

func buildOrder(id uint, p Payload) order {
	return order{
		ID:       id,
		Number:   p["number"].(string),
		VendorID: p["vendor_id"].(uint),
		Lines:    p[KeyLines].([]lineitem.Row),
	}
}

// staticLookups serves fixed collections
func staticLookups(index shared.LabelIndex) LookupSource {
	return LookupFunc(func(_ context.Context, resource string) (shared.References, error) {
		return index[resource], nil
	})
}

// MockNotifier records notices
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n Notice) {
	m.Called(ctx, n)
}

// recorder collects notices without expectations
type recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

func (r *recorder) levels() []Level {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Level, len(r.notices))
	for i, n := range r.notices {
		out[i] = n.Level
	}
	return out
}

func (r *recorder) last() Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}

func confirmAlways(answer bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) (bool, error) { return answer, nil })
}
