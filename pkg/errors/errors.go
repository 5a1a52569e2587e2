// Package errors provides structured error types for the handbook renderer.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so the CLI and the HTTP server can decide how to react without
// string matching:
//
//   - INVALID_COLOR: a hex color could not be parsed. The palette package
//     recovers from this itself; it never reaches a caller.
//   - INVALID_PARAMETER: a numeric or enumerated input is out of range
//     (non-positive spacing, unknown output format, unparsable form value).
//   - IMAGE_DECODE_FAILURE: an uploaded background could not be read. The
//     pipeline logs it and renders a pattern-only page.
//   - RENDER_FAILURE: the drawing surface or the output sink failed. This
//     aborts the request.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidParameter, "spacing must be positive, got %g", sp)
//	if errors.Is(err, errors.ErrCodeInvalidParameter) {
//	    // reject the request
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRenderFailure, origErr, "write pdf")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidParameter Code = "INVALID_PARAMETER"
	ErrCodeInvalidColor     Code = "INVALID_COLOR"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidPath      Code = "INVALID_PATH"

	// Background image errors
	ErrCodeImageDecode   Code = "IMAGE_DECODE_FAILURE"
	ErrCodeImageTooLarge Code = "IMAGE_TOO_LARGE"

	// Output errors
	ErrCodeRenderFailure Code = "RENDER_FAILURE"

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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// Fatal reports whether err must abort a page render. Background image
// problems are recoverable; everything else is not.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	switch GetCode(err) {
	case ErrCodeImageDecode, ErrCodeImageTooLarge:
		return false
	}
	return true
}
