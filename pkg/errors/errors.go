// Package errors provides structured error types for beavr.
//
// Every failure the backend can report carries a machine-readable [Code] so
// that the CLI, the HTTP API and library callers can branch on the kind of
// failure without string matching:
//
//   - INVALID_*: the caller supplied inputs the backend cannot work with
//   - CHOOSE_DOMAIN / OVERFLOW: arithmetic preconditions of the combine step
//   - NOT_FOUND_* / FILE_NOT_FOUND: missing datasets or cache entries
//   - INTERNAL_* / UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidTreedepthColoring, "no uniquely colored vertex in %v", vs)
//	if errors.Is(err, errors.ErrCodeInvalidTreedepthColoring) {
//	    // surface to the user
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode dataset %s", path)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput             Code = "INVALID_INPUT"
	ErrCodeInvalidColoring          Code = "INVALID_COLORING"
	ErrCodeInvalidTreedepthColoring Code = "INVALID_TREEDEPTH_COLORING"
	ErrCodeInvalidCombinationBounds Code = "INVALID_COMBINATION_BOUNDS"
	ErrCodeInvalidFormat            Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig            Code = "INVALID_CONFIG"

	// Arithmetic errors
	ErrCodeChooseDomain Code = "CHOOSE_DOMAIN"
	ErrCodeOverflow     Code = "OVERFLOW"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error to the status code the API responds with.
// Errors without a code are treated as internal failures.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidColoring, ErrCodeInvalidFormat,
		ErrCodeInvalidCombinationBounds, ErrCodeChooseDomain, ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case ErrCodeInvalidTreedepthColoring, ErrCodeOverflow:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
