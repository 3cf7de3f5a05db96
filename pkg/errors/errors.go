// Package errors provides structured error types for attredit.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, terminal editor and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly messages for transient notifications
//
// # Error Codes
//
// Two kinds of failure matter to a user of the editor:
//   - MALFORMED_INPUT: the free-text input is not valid JSON or does not have
//     the expected array-of-arrays shape. The previous model is kept.
//   - EXPORT_FAILURE: writing exported JSON to the clipboard or a file failed.
//     The in-memory model is unaffected.
//
// The remaining codes cover addressing (NOT_FOUND), per-row values that cannot
// be exported (INVALID_VALUE), bad flags or requests (INVALID_INPUT) and
// configuration problems (INVALID_CONFIG).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "no attribute %d on equipment %d", a, e)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Handle missing row
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeMalformedInput, jsonErr, "invalid JSON")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeMalformedInput Code = "MALFORMED_INPUT"
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidValue   Code = "INVALID_VALUE"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// Addressing errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Output errors
	ErrCodeExportFailure Code = "EXPORT_FAILURE"

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

// Detail returns the message followed by the messages of its causes,
// without code prefixes. Useful for notices where the cause matters
// ("invalid JSON data: unexpected end of JSON input").
func Detail(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + Detail(e.Cause)
}

// ValueError reports a row whose value cannot be coerced to an integer
// at export time.
type ValueError struct {
	EquipIndex int
	AttrIndex  int
	Value      string
}

// Error implements the error interface.
func (e *ValueError) Error() string {
	return fmt.Sprintf("equipment %d attribute %d: value %q is not an integer", e.EquipIndex, e.AttrIndex, e.Value)
}

// Code returns the error code for this error type.
func (e *ValueError) Code() Code {
	return ErrCodeInvalidValue
}
