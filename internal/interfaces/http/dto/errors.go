package dto

import (
	"net/http"
	"strings"
)

// Error codes the HTTP layer itself produces. Domain errors keep the
// codes their aggregates raise; the status mapping below covers both.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
)

// errorCodeHTTPStatus maps domain and transport error codes to HTTP
// status codes.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,

	// Missing resources
	"NOT_FOUND":           http.StatusNotFound,
	"DIMENSION_NOT_FOUND": http.StatusNotFound,
	"ENTRY_NOT_FOUND":     http.StatusNotFound,

	// Conflicts
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"DUPLICATE_SIGNATURE":  http.StatusConflict,
	"DUPLICATE_DIMENSION":  http.StatusConflict,
	"DUPLICATE_VALUE":      http.StatusConflict,
	"DUPLICATE_OPTION":     http.StatusConflict,

	// State machine violations
	"INVALID_STATE":      http.StatusUnprocessableEntity,
	"INVALID_TRANSITION": http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Codes without an explicit mapping fall back by shape: input-style
// codes become 400, everything else 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	for _, prefix := range []string{"INVALID_", "EMPTY_", "SAME_"} {
		if strings.HasPrefix(code, prefix) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}
