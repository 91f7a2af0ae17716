package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeTooLarge, http.StatusRequestEntityTooLarge},
		{"ERR_SOMETHING_NEW", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeConflict, NormalizeErrorCode("CONFLICT"))
	assert.Equal(t, ErrCodeValidation, NormalizeErrorCode("VALIDATION_ERROR"))
	assert.Equal(t, ErrCodeInternal, NormalizeErrorCode(ErrCodeInternal))
}

func TestResponseEnvelope(t *testing.T) {
	t.Run("error carries request id", func(t *testing.T) {
		raw, err := json.Marshal(NewErrorResponseWithRequestID(ErrCodeNotFound, "Vendor #3 not found", "req-1"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":false,"error":{"code":"ERR_NOT_FOUND","message":"Vendor #3 not found","request_id":"req-1"}}`, string(raw))
	})

	t.Run("list carries meta", func(t *testing.T) {
		raw, err := json.Marshal(NewListResponse([]int{1, 2}, 2, "mo"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"data":[1,2],"meta":{"total":2,"search":"mo"}}`, string(raw))
	})

	t.Run("validation details", func(t *testing.T) {
		resp := NewValidationErrorResponse("Request validation failed", "", []ValidationDetail{{Field: "item_name", Message: "This field is required"}})
		assert.Equal(t, ErrCodeValidation, resp.Error.Code)
		assert.Len(t, resp.Error.Details, 1)
	})
}
