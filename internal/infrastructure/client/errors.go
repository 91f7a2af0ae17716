package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/metabooks/erp/internal/domain/shared"
)

// APIError is a non-2xx response of the backend
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
	Details   []FieldError
}

// FieldError is one failed validation rule reported by the server
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (HTTP %d", e.Message, e.Status)
	if e.Code != "" {
		b.WriteString(", " + e.Code)
	}
	b.WriteString(")")
	for _, d := range e.Details {
		fmt.Fprintf(&b, "; %s: %s", d.Field, d.Message)
	}
	return b.String()
}

// Unwrap maps the error code back to the domain sentinel so callers can
// use errors.Is(err, shared.ErrNotFound)
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "ERR_NOT_FOUND":
		return shared.ErrNotFound
	case "ERR_ALREADY_EXISTS":
		return shared.ErrAlreadyExists
	case "ERR_VALIDATION":
		return shared.ErrValidation
	case "ERR_INVALID_INPUT", "ERR_INVALID_JSON", "ERR_BAD_REQUEST":
		return shared.ErrInvalidInput
	case "ERR_CONFLICT":
		return shared.ErrReferenceInUse
	}
	return nil
}

// Temporary reports whether retrying the request may succeed
func (e *APIError) Temporary() bool {
	return e.Status >= http.StatusInternalServerError || e.Status == http.StatusTooManyRequests
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var envelope struct {
		Error *struct {
			Code      string       `json:"code"`
			Message   string       `json:"message"`
			RequestID string       `json:"request_id"`
			Details   []FieldError `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.RequestID = envelope.Error.RequestID
		apiErr.Details = envelope.Error.Details
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
		if apiErr.Message == "" {
			apiErr.Message = "unexpected response"
		}
	}
	return apiErr
}
