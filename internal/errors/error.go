package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryProtocol Category = "protocol"
	CategoryAPI      Category = "api"
	CategoryStore    Category = "store"
	CategoryRuntime  Category = "runtime"
)

// SortableError is a structured error with a code, an explanation and a hint.
type SortableError struct {
	// Code is a unique error identifier (e.g., "E100").
	Code string

	// Category is the error type (config, api, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Status is the HTTP status the API responds with.
	Status int

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *SortableError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *SortableError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *SortableError) WithSuggestion(s string) *SortableError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *SortableError) WithDetail(d string) *SortableError {
	e.Detail = d
	return e
}

// WithDetailf is WithDetail with a format string.
func (e *SortableError) WithDetailf(format string, args ...any) *SortableError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *SortableError) Wrap(err error) *SortableError {
	e.Wrapped = err
	return e
}

// New creates a SortableError from a registered error code.
func New(code string) *SortableError {
	template, ok := registry[code]
	if !ok {
		return &SortableError{
			Code:    code,
			Message: "Unknown error",
			Status:  http.StatusInternalServerError,
		}
	}
	return &SortableError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Status:   template.Status,
	}
}

// Newf creates a new SortableError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *SortableError {
	return &SortableError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
		Status:   http.StatusInternalServerError,
	}
}

// FromError wraps a standard error in a SortableError.
// An error that already is (or wraps) a SortableError is returned as that error.
func FromError(err error, code string) *SortableError {
	if err == nil {
		return nil
	}
	var se *SortableError
	if errors.As(err, &se) {
		return se
	}
	return New(code).Wrap(err)
}

// HTTPStatus returns the HTTP status for err. Errors that are not
// SortableErrors map to 500.
func HTTPStatus(err error) int {
	var se *SortableError
	if errors.As(err, &se) && se.Status != 0 {
		return se.Status
	}
	return http.StatusInternalServerError
}
