package lineitem

import "github.com/shopspring/decimal"

// DefaultTaxRate is the flat tax applied to line-item documents
var DefaultTaxRate = decimal.RequireFromString("0.10")

// Totals are the aggregate figures of a set of rows
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal" gorm:"type:decimal(18,4);not null;default:0"`
	Tax        decimal.Decimal `json:"tax" gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal decimal.Decimal `json:"grand_total" gorm:"type:decimal(18,4);not null;default:0"`
}

// Summarize derives the totals of rows. Each row's total is recomputed from
// its quantity and unit price rather than trusted. Tax is rounded to two
// decimal places.
func Summarize(rows []Row, rate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, r := range rows {
		subtotal = subtotal.Add(r.Quantity.Mul(r.UnitPrice))
	}
	tax := subtotal.Mul(rate).Round(2)
	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: subtotal.Add(tax),
	}
}

// Recomputed returns a copy of rows with every total recomputed
func Recomputed(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		r.Recompute()
		out[i] = r
	}
	return out
}
