// Package trade holds the line-item documents exchanged with parties:
// purchase requisitions, purchase orders and delivery challans.
package trade

import (
	"github.com/metabooks/erp/internal/domain/lineitem"
)

// Resource names of the documents
const (
	ResourcePurchaseRequisitions = "purchase-requisitions"
	ResourcePurchaseOrders       = "purchase-orders"
	ResourceDeliveryChallans     = "delivery-challans"
)

// LineSet is the item table of a document together with the totals
// derived from it. The totals are stored so a saved document reads back
// exactly as it was approved.
type LineSet struct {
	Lines []lineitem.Row `json:"lines" gorm:"type:text;serializer:json" binding:"required,min=1,dive"`
	lineitem.Totals
}

// StampTotals recomputes every row total and the document totals at the
// default tax rate
func (l *LineSet) StampTotals() {
	l.Lines = lineitem.Recomputed(l.Lines)
	l.Totals = lineitem.Summarize(l.Lines, lineitem.DefaultTaxRate)
}
