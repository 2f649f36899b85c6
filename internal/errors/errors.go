package errors

import (
	"fmt"
	"net/http"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Messages shown to users of the upload form
const (
	MsgNoFile          = "No file uploaded. Please select a CSV file."
	MsgNoFileSelected  = "No file selected."
	MsgUnsupportedFile = "Only CSV or XLSX files are supported."
	MsgReadFailed      = "Failed to read file: %s"
)

// Predefined error types for common scenarios
var (
	ErrNoFile          = New(http.StatusBadRequest, "NO_FILE", MsgNoFile)
	ErrNoFileSelected  = New(http.StatusBadRequest, "NO_FILE_SELECTED", MsgNoFileSelected)
	ErrUnsupportedFile = New(http.StatusBadRequest, "UNSUPPORTED_FILE", MsgUnsupportedFile)

	ErrNotFound          = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrPayloadTooLarge   = New(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "The uploaded file exceeds the maximum allowed size")
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")
	ErrInternalServer    = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
)

// FileReadError reports an upload that could not be parsed
func FileReadError(err error) *APIError {
	return New(http.StatusBadRequest, "FILE_READ_FAILED", fmt.Sprintf(MsgReadFailed, err.Error()))
}
