package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, GetHTTPStatus(ErrCodeUnauthorized))
	assert.Equal(t, http.StatusTooManyRequests, GetHTTPStatus(ErrCodeRateLimited))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("SOMETHING_ELSE"))
}

func TestDomainErrorHTTPStatus(t *testing.T) {
	cases := map[string]int{
		"NOT_FOUND":              http.StatusNotFound,
		"DUPLICATE_DAY":          http.StatusConflict,
		"OVERLAPPING_DATE_RANGE": http.StatusConflict,
		"EMAIL_TAKEN":            http.StatusConflict,
		"EMPLOYEE_CODE_TAKEN":    http.StatusConflict,
		"INVOICE_EXISTS":         http.StatusConflict,
		"UPLOAD_NOT_FOUND":       http.StatusNotFound,
		"INVALID_REASON":         http.StatusBadRequest,
		"INVALID_STATE":          http.StatusUnprocessableEntity,
		"INSUFFICIENT_BALANCE":   http.StatusUnprocessableEntity,
		"RESOURCE_LOCKED":        http.StatusLocked,
		"UNAUTHORIZED":           http.StatusUnauthorized,
		"SELF_REVIEW":            http.StatusUnprocessableEntity,
	}
	for code, want := range cases {
		assert.Equal(t, want, DomainErrorHTTPStatus(code), code)
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2, 3}, 45, 2, 20)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "email", Message: "Invalid email format"},
	})
	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 1)
}
