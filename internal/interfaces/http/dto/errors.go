package dto

import "net/http"

// Error codes returned by the API. Domain error codes pass through
// unchanged; the rest originate in the HTTP layer itself.
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeForbidden      = "FORBIDDEN"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeInternal       = "INTERNAL_ERROR"
	ErrCodeMissingTenant  = "MISSING_TENANT"
	ErrCodeTokenRevoked   = "TOKEN_REVOKED"
	ErrCodeInvalidToken   = "INVALID_TOKEN"
	ErrCodeLoginFailed    = "LOGIN_FAILED"
	ErrCodePaymentGateway = "PAYMENT_GATEWAY_ERROR"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes. Codes not
// listed here fall back to 500.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:      http.StatusBadRequest,
	"INVALID_INPUT":        http.StatusBadRequest,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeInvalidToken:    http.StatusUnauthorized,
	ErrCodeTokenRevoked:    http.StatusUnauthorized,
	ErrCodeLoginFailed:     http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeMissingTenant:   http.StatusBadRequest,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"DUPLICATE_MOVEMENT":   http.StatusConflict,
	"INVALID_STATE":        http.StatusConflict,
	"INSUFFICIENT_STOCK":   http.StatusUnprocessableEntity,
	"PAYMENT_MISMATCH":     http.StatusUnprocessableEntity,
	"RETURN_EXCEEDS_SOLD":  http.StatusUnprocessableEntity,
	ErrCodePaymentGateway:  http.StatusBadGateway,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// HTTPStatusForCode returns the HTTP status for an error code
func HTTPStatusForCode(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
