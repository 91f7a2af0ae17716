package shared

import "time"

// Entity is implemented by every record managed through the generic
// record pipeline. Label is the text shown for the record in pickers.
type Entity interface {
	GetID() uint
	Label() string
}

// Record provides the surrogate identity and timestamps shared by all
// entities. The identifier is assigned by the database.
type Record struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetID returns the record ID
func (r Record) GetID() uint {
	return r.ID
}

// LabelResolver resolves a foreign key to its display label.
type LabelResolver interface {
	Resolve(resource string, id uint) string
}

// Denormalizer is implemented by entities that carry read-only display
// names for their foreign keys. The names are filled on read and never
// persisted.
type Denormalizer interface {
	Denormalize(r LabelResolver)
}

// LineStamper is implemented by documents with line items so the server
// can recompute and persist totals at save time.
type LineStamper interface {
	StampTotals()
}

// ResetRecord clears the identity and timestamps so a decoded write
// payload cannot choose them
func (r *Record) ResetRecord() {
	*r = Record{}
}
