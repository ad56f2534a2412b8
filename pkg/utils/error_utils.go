package utils

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

// Standardized APIError response
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"error"`
	Details    string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError instance
func NewAPIError(statusCode int, code string, message string, details string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Details:    details,
	}
}

// RespondWithError sends {success:false, error, code} and aborts the chain.
func RespondWithError(c *gin.Context, err *APIError) {
	body := gin.H{"success": false, "error": err.Message}
	if err.Code != "" {
		body["code"] = err.Code
	}
	if err.Details != "" && gin.Mode() == gin.DebugMode {
		body["details"] = err.Details
	}
	c.JSON(err.StatusCode, body)
	c.Abort()
}

// Common Error Constants
const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeInvalidItem         = "INVALID_ITEM"
	ErrCodeItemNotFound        = "ITEM_NOT_FOUND"
	ErrCodeInsufficientCash    = "INSUFFICIENT_CASH"
	ErrCodeFeatureDisabled     = "FEATURE_DISABLED"
	ErrCodeProviderError       = "PROVIDER_ERROR"
	ErrCodePersistenceError    = "PERSISTENCE_ERROR"
	ErrCodeWebhookInvalid      = "WEBHOOK_INVALID"
)

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail checks if a string looks like an email address.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// RespondValidationFailed returns a standard 400 for malformed input.
func RespondValidationFailed(c *gin.Context, message string) {
	RespondWithError(c, NewAPIError(http.StatusBadRequest, ErrCodeValidationFailed, message, ""))
}
