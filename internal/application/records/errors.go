package records

import (
	"errors"
	"fmt"
	"strings"

	"github.com/metabooks/erp/internal/domain/shared"
)

var (
	// ErrDeleteCanceled is returned when the delete confirmation is refused
	ErrDeleteCanceled = errors.New("records: delete canceled")
	// ErrFormClosed is returned when saving without an open form
	ErrFormClosed = errors.New("records: no form is open")
	// ErrUnknownField is returned for a key the schema does not declare
	ErrUnknownField = errors.New("records: unknown field")
	// ErrUnknownOption is returned when selecting an id absent from the lookup list
	ErrUnknownOption = errors.New("records: option not in lookup list")
	// ErrNoMatch is returned when a picker search matches nothing
	ErrNoMatch = errors.New("records: no option matches")
	// ErrAmbiguousMatch is returned when a picker search matches several options
	ErrAmbiguousMatch = errors.New("records: several options match")
	// ErrNoLines is returned for line operations on a schema without lines
	ErrNoLines = errors.New("records: record has no line items")
	// ErrNegative is returned when a decimal field is set below zero
	ErrNegative = errors.New("records: value must not be negative")
)

// ValidationError lists the required keys that are unset
type ValidationError struct {
	Missing []string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return "required fields missing: " + strings.Join(e.Missing, ", ")
}

// Unwrap lets errors.Is match shared.ErrValidation
func (e *ValidationError) Unwrap() error {
	return shared.ErrValidation
}

// LookupError reports which lookup collection failed to load
type LookupError struct {
	Resource string
	Err      error
}

// Error implements the error interface
func (e *LookupError) Error() string {
	return fmt.Sprintf("loading %s lookup: %v", e.Resource, e.Err)
}

// Unwrap returns the underlying error
func (e *LookupError) Unwrap() error {
	return e.Err
}
