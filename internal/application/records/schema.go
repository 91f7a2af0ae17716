// Package records implements the generic record-management pattern: a
// filterable list container, a create/edit form with searchable reference
// pickers and line items, all driven by a declarative schema per entity.
package records

import (
	"slices"

	"github.com/metabooks/erp/internal/domain/lineitem"
	"github.com/metabooks/erp/internal/domain/masterdata"
	"github.com/metabooks/erp/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Kind is the value kind of a field
type Kind int

const (
	KindText Kind = iota
	KindDecimal
	KindDate
	KindChoice
	KindReference
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindDecimal:
		return "decimal"
	case KindDate:
		return "date"
	case KindChoice:
		return "choice"
	case KindReference:
		return "reference"
	default:
		return "text"
	}
}

// DateLayout is the wire format of date fields
const DateLayout = "2006-01-02"

// Payload keys added for entities with line items
const (
	KeyLines      = "lines"
	KeySubtotal   = "subtotal"
	KeyTax        = "tax"
	KeyGrandTotal = "grand_total"
)

// Field describes one editable field of an entity. Fields are required
// unless marked Optional.
type Field[T any] struct {
	Key      string
	Label    string
	Kind     Kind
	Required bool
	Lookup   string
	Noun     string
	Choices  []string
	Value    func(T) any
}

// Optional returns a copy of the field that may be left unset
func (f Field[T]) Optional() Field[T] {
	f.Required = false
	return f
}

// Info returns the type-erased description of the field
func (f Field[T]) Info() FieldInfo {
	return FieldInfo{
		Key:      f.Key,
		Label:    f.Label,
		Kind:     f.Kind,
		Required: f.Required,
		Lookup:   f.Lookup,
		Noun:     f.Noun,
		Choices:  f.Choices,
	}
}

// FieldInfo is a Field without its value accessor
type FieldInfo struct {
	Key      string
	Label    string
	Kind     Kind
	Required bool
	Lookup   string
	Noun     string
	Choices  []string
}

// Text declares a free text field
func Text[T any](key, label string, get func(T) string) Field[T] {
	return Field[T]{Key: key, Label: label, Kind: KindText, Required: true, Value: func(r T) any { return get(r) }}
}

// Date declares a YYYY-MM-DD date field
func Date[T any](key, label string, get func(T) string) Field[T] {
	return Field[T]{Key: key, Label: label, Kind: KindDate, Required: true, Value: func(r T) any { return get(r) }}
}

// Decimal declares a numeric field
func Decimal[T any](key, label string, get func(T) decimal.Decimal) Field[T] {
	return Field[T]{Key: key, Label: label, Kind: KindDecimal, Required: true, Value: func(r T) any { return get(r) }}
}

// Choice declares a text field restricted to choices
func Choice[T any](key, label string, choices []string, get func(T) string) Field[T] {
	return Field[T]{Key: key, Label: label, Kind: KindChoice, Required: true, Choices: choices, Value: func(r T) any { return get(r) }}
}

// Ref declares a foreign key picked from the lookup collection of resource
func Ref[T any](key, label, resource, noun string, get func(T) uint) Field[T] {
	return Field[T]{Key: key, Label: label, Kind: KindReference, Required: true, Lookup: resource, Noun: noun, Value: func(r T) any { return get(r) }}
}

// Column is one display column of the list table
type Column[T any] struct {
	Title string
	Text  func(T) string
}

// Schema is the declarative description of one managed entity
type Schema[T shared.Entity] struct {
	Module   string
	Resource string
	Noun     string
	Title    string
	Fields   []Field[T]
	Columns  []Column[T]
	// Search returns the display texts matched by the list filter
	Search func(T) []string
	// Lines returns the line items of a document; nil for plain records
	Lines func(T) []lineitem.Row
}

// Path is the REST path of the resource below the API version
func (s *Schema[T]) Path() string {
	return s.Module + "/" + s.Resource
}

// HasLines reports whether the entity carries line items
func (s *Schema[T]) HasLines() bool {
	return s.Lines != nil
}

// Field returns the field declared under key
func (s *Schema[T]) Field(key string) (Field[T], bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field[T]{}, false
}

// FieldInfos returns the type-erased field list
func (s *Schema[T]) FieldInfos() []FieldInfo {
	out := make([]FieldInfo, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Info()
	}
	return out
}

// Lookups returns the lookup collections a form of this entity needs, in
// declaration order and without duplicates
func (s *Schema[T]) Lookups() []string {
	var out []string
	for _, f := range s.Fields {
		if f.Kind == KindReference && !slices.Contains(out, f.Lookup) {
			out = append(out, f.Lookup)
		}
	}
	if s.HasLines() && !slices.Contains(out, masterdata.ResourceItems) {
		out = append(out, masterdata.ResourceItems)
	}
	return out
}

// PayloadKeys returns exactly the keys a write payload carries
func (s *Schema[T]) PayloadKeys() []string {
	keys := make([]string, 0, len(s.Fields)+4)
	for _, f := range s.Fields {
		keys = append(keys, f.Key)
	}
	if s.HasLines() {
		keys = append(keys, KeyLines, KeySubtotal, KeyTax, KeyGrandTotal)
	}
	return keys
}

// ColumnTitles returns the list table header
func (s *Schema[T]) ColumnTitles() []string {
	out := make([]string, 0, len(s.Columns)+1)
	out = append(out, "ID")
	for _, c := range s.Columns {
		out = append(out, c.Title)
	}
	return out
}
