package records

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/metabooks/erp/internal/domain/lineitem"
	"github.com/metabooks/erp/internal/domain/masterdata"
	"github.com/metabooks/erp/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaveFunc receives the payload of a valid form
type SaveFunc func(ctx context.Context, payload Payload) error

// Form is the create/edit modal of one record
type Form[T shared.Entity] struct {
	schema  *Schema[T]
	state   FormState[T]
	values  map[string]any
	pickers map[string]*Picker
	items   shared.References
	lines   *lineitem.Sheet
}

// NewForm opens a form in state with the fetched lookup collections. While
// editing, every field starts from the record; foreign keys default to 0
// and their labels come from lookups, never from the record's display
// names.
func NewForm[T shared.Entity](schema *Schema[T], state FormState[T], lookups shared.LabelIndex) *Form[T] {
	f := &Form[T]{
		schema:  schema,
		state:   state,
		values:  make(map[string]any, len(schema.Fields)),
		pickers: make(map[string]*Picker),
	}

	record, editing := state.Record()
	for _, field := range schema.Fields {
		v := zeroValue(field.Kind)
		if editing && field.Value != nil {
			v = normalize(field.Kind, field.Value(record))
		}
		f.values[field.Key] = v
		if field.Kind == KindReference {
			f.pickers[field.Key] = NewPicker(field.Noun, lookups[field.Lookup], v.(uint))
		}
	}

	if schema.HasLines() {
		f.items = lookups[masterdata.ResourceItems]
		if editing {
			f.lines = lineitem.NewSheet(schema.Lines(record)...)
		} else {
			f.lines = lineitem.NewSheet()
		}
	}
	return f
}

// State returns the state the form was opened in
func (f *Form[T]) State() FormState[T] {
	return f.state
}

// Mode returns the mode the form was opened in
func (f *Form[T]) Mode() Mode {
	return f.state.Mode()
}

// Fields returns the type-erased field list
func (f *Form[T]) Fields() []FieldInfo {
	return f.schema.FieldInfos()
}

// Value returns the current value of key
func (f *Form[T]) Value(key string) any {
	return f.values[key]
}

// Picker returns the picker bound to a reference field
func (f *Form[T]) Picker(key string) (*Picker, bool) {
	p, ok := f.pickers[key]
	return p, ok
}

// Set assigns a typed value: string for text, date and choice fields,
// decimal.Decimal for decimals and uint for references
func (f *Form[T]) Set(key string, v any) error {
	field, ok := f.schema.Field(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}

	switch field.Kind {
	case KindText, KindDate, KindChoice:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%s: expected text, got %T", key, v)
		}
		if err := checkText(field, s); err != nil {
			return err
		}
		f.values[key] = s
	case KindDecimal:
		d, ok := v.(decimal.Decimal)
		if !ok {
			return fmt.Errorf("%s: expected decimal, got %T", key, v)
		}
		if d.IsNegative() {
			return fmt.Errorf("%s: %w, got %s", key, ErrNegative, d)
		}
		f.values[key] = d
	case KindReference:
		id, ok := v.(uint)
		if !ok {
			return fmt.Errorf("%s: expected id, got %T", key, v)
		}
		if err := f.pickers[key].Select(id); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		f.values[key] = id
	}
	return nil
}

// SetString parses raw according to the field kind and assigns it. For
// references raw is either a numeric id or "@text", which selects the
// single picker option matching text.
func (f *Form[T]) SetString(key, raw string) error {
	field, ok := f.schema.Field(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}

	switch field.Kind {
	case KindDecimal:
		if strings.TrimSpace(raw) == "" {
			return f.Set(key, decimal.Zero)
		}
		d, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%s: invalid number %q", key, raw)
		}
		return f.Set(key, d)
	case KindReference:
		if text, ok := strings.CutPrefix(raw, "@"); ok {
			p := f.pickers[key]
			if err := p.SelectMatch(text); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			f.values[key] = p.Selected()
			return nil
		}
		id, err := parseID(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return f.Set(key, id)
	default:
		return f.Set(key, raw)
	}
}

// Lines returns the line-item sheet, nil for plain records
func (f *Form[T]) Lines() *lineitem.Sheet {
	return f.lines
}

// LinePicker returns an item picker for row i of the sheet
func (f *Form[T]) LinePicker(i int) (*Picker, error) {
	if f.lines == nil {
		return nil, ErrNoLines
	}
	row, err := f.lines.Row(i)
	if err != nil {
		return nil, err
	}
	return NewPicker("Item", f.items, row.ItemID), nil
}

// SelectLineItem sets the item of row i after checking it against the
// items lookup
func (f *Form[T]) SelectLineItem(i int, itemID uint) error {
	p, err := f.LinePicker(i)
	if err != nil {
		return err
	}
	if err := p.Select(itemID); err != nil {
		return fmt.Errorf("lines[%d].item_id: %w", i, err)
	}
	return f.lines.SetItem(i, itemID)
}

// Totals returns the derived totals of the sheet
func (f *Form[T]) Totals() lineitem.Totals {
	if f.lines == nil {
		return lineitem.Totals{}
	}
	return f.lines.Totals(lineitem.DefaultTaxRate)
}

// Missing returns the keys of required values that are unset
func (f *Form[T]) Missing() []string {
	var missing []string
	for _, field := range f.schema.Fields {
		if field.Required && !truthy(f.values[field.Key]) {
			missing = append(missing, field.Key)
		}
	}
	if f.lines != nil {
		missing = append(missing, f.lines.Missing()...)
	}
	return missing
}

// Validate returns a *ValidationError when a required value is unset
func (f *Form[T]) Validate() error {
	if missing := f.Missing(); len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Payload returns the flat write body: every declared field plus, for
// documents, the rows and the totals computed from them
func (f *Form[T]) Payload() Payload {
	p := make(Payload, len(f.schema.Fields)+4)
	for _, field := range f.schema.Fields {
		v := f.values[field.Key]
		if s, ok := v.(string); ok {
			v = strings.TrimSpace(s)
		}
		p[field.Key] = v
	}
	if f.lines != nil {
		rows := f.lines.Rows()
		totals := lineitem.Summarize(rows, lineitem.DefaultTaxRate)
		p[KeyLines] = rows
		p[KeySubtotal] = totals.Subtotal
		p[KeyTax] = totals.Tax
		p[KeyGrandTotal] = totals.GrandTotal
	}
	return p
}

// Submit validates the form and hands the payload to save. save is never
// called while a required value is unset.
func (f *Form[T]) Submit(ctx context.Context, save SaveFunc) error {
	if err := f.Validate(); err != nil {
		return err
	}
	return save(ctx, f.Payload())
}

func checkText[T any](field Field[T], s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	switch field.Kind {
	case KindDate:
		if _, err := time.Parse(DateLayout, s); err != nil {
			return fmt.Errorf("%s: expected a date like 2006-01-02, got %q", field.Key, s)
		}
	case KindChoice:
		if !slices.Contains(field.Choices, s) {
			return fmt.Errorf("%s: %q is not one of %s", field.Key, s, strings.Join(field.Choices, ", "))
		}
	}
	return nil
}

func parseID(raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(n), nil
}

func zeroValue(k Kind) any {
	switch k {
	case KindDecimal:
		return decimal.Zero
	case KindReference:
		return uint(0)
	default:
		return ""
	}
}

// normalize coerces a value read from a record into the form's
// representation of kind
func normalize(k Kind, v any) any {
	switch k {
	case KindDecimal:
		if d, ok := v.(decimal.Decimal); ok {
			return d
		}
		return decimal.Zero
	case KindReference:
		if id, ok := v.(uint); ok {
			return id
		}
		return uint(0)
	default:
		switch s := v.(type) {
		case string:
			return s
		case fmt.Stringer:
			return s.String()
		}
		return ""
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x) != ""
	case decimal.Decimal:
		return !x.IsZero()
	case uint:
		return x != 0
	case nil:
		return false
	}
	return true
}
