package records

import (
	"context"
	"fmt"

	"github.com/metabooks/erp/internal/domain/lineitem"
	"github.com/metabooks/erp/internal/domain/shared"
)

// Editor is the type-erased view of an open Form
type Editor interface {
	Mode() Mode
	Fields() []FieldInfo
	Value(key string) any
	Set(key string, v any) error
	SetString(key, raw string) error
	Picker(key string) (*Picker, bool)
	Lines() *lineitem.Sheet
	LinePicker(i int) (*Picker, error)
	SelectLineItem(i int, itemID uint) error
	Totals() lineitem.Totals
	Missing() []string
	Payload() Payload
}

// Table is the type-erased view of a Collection, used by shells that hold
// collections of many entity types side by side
type Table interface {
	Module() string
	Resource() string
	Path() string
	Title() string
	Noun() string
	Fields() []FieldInfo
	Columns() []string

	Load(ctx context.Context) error
	SetQuery(q string)
	Query() string
	Len() int
	// Rows renders the visible records, one cell per column
	Rows() [][]string
	Visible() []any
	Record(id uint) (any, bool)

	Mode() Mode
	StartCreate(ctx context.Context) (Editor, error)
	StartEdit(ctx context.Context, id uint) (Editor, error)
	Editor() (Editor, bool)
	Save(ctx context.Context) error
	Cancel()
	Delete(ctx context.Context, id uint) error
}

// Table returns the type-erased view of the collection
func (c *Collection[T]) Table() Table {
	return tableView[T]{c}
}

type tableView[T shared.Entity] struct {
	*Collection[T]
}

func (t tableView[T]) Module() string { return t.schema.Module }
func (t tableView[T]) Resource() string { return t.schema.Resource }
func (t tableView[T]) Path() string { return t.schema.Path() }
func (t tableView[T]) Title() string { return t.schema.Title }
func (t tableView[T]) Noun() string { return t.schema.Noun }
func (t tableView[T]) Fields() []FieldInfo { return t.schema.FieldInfos() }
func (t tableView[T]) Columns() []string { return t.schema.ColumnTitles() }
func (t tableView[T]) Mode() Mode { return t.State().Mode() }
func (t tableView[T]) Len() int { return len(t.Records()) }

func (t tableView[T]) Rows() [][]string {
	visible := t.Collection.Visible()
	rows := make([][]string, 0, len(visible))
	for _, rec := range visible {
		row := make([]string, 0, len(t.schema.Columns)+1)
		row = append(row, fmt.Sprint(rec.GetID()))
		for _, col := range t.schema.Columns {
			row = append(row, col.Text(rec))
		}
		rows = append(rows, row)
	}
	return rows
}

func (t tableView[T]) Visible() []any {
	visible := t.Collection.Visible()
	out := make([]any, len(visible))
	for i, rec := range visible {
		out[i] = rec
	}
	return out
}

func (t tableView[T]) Record(id uint) (any, bool) {
	rec, ok := t.Find(id)
	if !ok {
		return nil, false
	}
	return rec, true
}

func (t tableView[T]) StartCreate(ctx context.Context) (Editor, error) {
	f, err := t.Collection.StartCreate(ctx)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (t tableView[T]) StartEdit(ctx context.Context, id uint) (Editor, error) {
	f, err := t.Collection.StartEdit(ctx, id)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (t tableView[T]) Editor() (Editor, bool) {
	f, ok := t.Form()
	if !ok {
		return nil, false
	}
	return f, true
}
