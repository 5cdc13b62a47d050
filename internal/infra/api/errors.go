package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Closed set of error codes every failure in the data layer is classified as.
const (
	CodeNotFound   = "NOT_FOUND"
	CodeValidation = "VALIDATION_ERROR"
	CodeNetwork    = "NETWORK_ERROR"
	CodeInternal   = "INTERNAL_ERROR"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Error is the classified error surfaced by the transport and repositories.
// Status mirrors the HTTP status a real backend would have answered with.
type Error struct {
	Code    string       `json:"code"`
	Status  int          `json:"status"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// Retryable reports whether the caller may retry the operation. NOT_FOUND and
// VALIDATION_ERROR are permanent conditions.
func (e *Error) Retryable() bool {
	return e.Code == CodeNetwork || e.Code == CodeInternal
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: message}
}

func Validation(message string, fields []FieldError) *Error {
	return &Error{Code: CodeValidation, Status: http.StatusUnprocessableEntity, Message: message, Fields: fields}
}

func Network(message string, status int) *Error {
	return &Error{Code: CodeNetwork, Status: status, Message: message}
}

func Internal(message string) *Error {
	return &Error{Code: CodeInternal, Status: http.StatusInternalServerError, Message: message}
}

// AsError extracts a classified error, if err carries one.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsCode reports whether err is a classified error with the given code.
func IsCode(err error, code string) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Code == code
}
