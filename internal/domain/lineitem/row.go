// Package lineitem models the dynamic rows of order-like documents and the
// totals derived from them.
package lineitem

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrLastRow is returned when removing the only remaining row
	ErrLastRow = errors.New("lineitem: at least one row must remain")
	// ErrRowIndex is returned for an index outside the sheet
	ErrRowIndex = errors.New("lineitem: row index out of range")
)

// Row is one line of a document. Total is derived and is only written by
// Recompute.
type Row struct {
	ItemID    uint            `json:"item_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// NewRow creates a row with its total computed
func NewRow(itemID uint, quantity, unitPrice decimal.Decimal) Row {
	r := Row{ItemID: itemID, Quantity: quantity, UnitPrice: unitPrice}
	r.Recompute()
	return r
}

// Recompute sets Total = Quantity * UnitPrice
func (r *Row) Recompute() {
	r.Total = r.Quantity.Mul(r.UnitPrice)
}

// Missing lists the unset required parts of the row
func (r Row) Missing() []string {
	var missing []string
	if r.ItemID == 0 {
		missing = append(missing, "item_id")
	}
	if r.Quantity.IsZero() {
		missing = append(missing, "quantity")
	}
	if r.UnitPrice.IsZero() {
		missing = append(missing, "unit_price")
	}
	return missing
}

// Sheet is the editable set of rows behind a line-item form. It always
// holds at least one row.
type Sheet struct {
	rows []Row
}

// NewSheet creates a sheet from existing rows. Totals are recomputed and an
// empty input yields a single zero row.
func NewSheet(rows ...Row) *Sheet {
	s := &Sheet{rows: make([]Row, 0, max(len(rows), 1))}
	for _, r := range rows {
		r.Recompute()
		s.rows = append(s.rows, r)
	}
	if len(s.rows) == 0 {
		s.rows = append(s.rows, Row{})
	}
	return s
}

// Len returns the number of rows
func (s *Sheet) Len() int {
	return len(s.rows)
}

// Rows returns a copy of the rows
func (s *Sheet) Rows() []Row {
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Row returns the row at index i
func (s *Sheet) Row(i int) (Row, error) {
	if err := s.check(i); err != nil {
		return Row{}, err
	}
	return s.rows[i], nil
}

// Add appends a zero row and returns its index
func (s *Sheet) Add() int {
	s.rows = append(s.rows, Row{})
	return len(s.rows) - 1
}

// Remove deletes the row at index i. The last remaining row cannot be
// removed.
func (s *Sheet) Remove(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	if len(s.rows) == 1 {
		return ErrLastRow
	}
	s.rows = append(s.rows[:i], s.rows[i+1:]...)
	return nil
}

// Reset drops every row, leaving a single zero row
func (s *Sheet) Reset() {
	s.rows = append(s.rows[:0], Row{})
}

// SetItem sets the item referenced by row i
func (s *Sheet) SetItem(i int, itemID uint) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.rows[i].ItemID = itemID
	return nil
}

// SetQuantity sets the quantity of row i and recomputes its total
func (s *Sheet) SetQuantity(i int, q decimal.Decimal) error {
	if err := s.check(i); err != nil {
		return err
	}
	if q.IsNegative() {
		return fmt.Errorf("lineitem: quantity must not be negative, got %s", q)
	}
	s.rows[i].Quantity = q
	s.rows[i].Recompute()
	return nil
}

// SetUnitPrice sets the unit price of row i and recomputes its total
func (s *Sheet) SetUnitPrice(i int, p decimal.Decimal) error {
	if err := s.check(i); err != nil {
		return err
	}
	if p.IsNegative() {
		return fmt.Errorf("lineitem: unit price must not be negative, got %s", p)
	}
	s.rows[i].UnitPrice = p
	s.rows[i].Recompute()
	return nil
}

// Missing lists unset parts of every row as "lines[i].key"
func (s *Sheet) Missing() []string {
	var missing []string
	for i, r := range s.rows {
		for _, key := range r.Missing() {
			missing = append(missing, fmt.Sprintf("lines[%d].%s", i, key))
		}
	}
	return missing
}

// Totals summarizes the sheet at the given tax rate
func (s *Sheet) Totals(rate decimal.Decimal) Totals {
	return Summarize(s.rows, rate)
}

func (s *Sheet) check(i int) error {
	if i < 0 || i >= len(s.rows) {
		return fmt.Errorf("%w: %d (rows: %d)", ErrRowIndex, i, len(s.rows))
	}
	return nil
}
