package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so wrapped copies created
// with WithMessage still match the sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of the error with a more specific message
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{Code: e.Code, Message: message}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound         = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists    = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput     = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrValidation       = NewDomainError("VALIDATION_ERROR", "Required fields are missing")
	ErrUnknownReference = NewDomainError("INVALID_INPUT", "Referenced record does not exist")
	ErrUnknownResource  = NewDomainError("NOT_FOUND", "Unknown resource")
	ErrReferenceInUse   = NewDomainError("CONFLICT", "Record is still referenced by other records")
	ErrServiceNotReady  = NewDomainError("INTERNAL_ERROR", "Service is not ready")
)
