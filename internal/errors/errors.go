// Package errors defines the stable error taxonomy shared by every query
// surface: a machine-readable code plus a human remediation suggestion.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// DataNotFound indicates the corpus has no data for the requested scope
	DataNotFound ErrorCode = "DATA_NOT_FOUND"
	// InvalidParameter indicates a malformed or out-of-range request parameter
	InvalidParameter ErrorCode = "INVALID_PARAMETER"
	// ParseError indicates a snapshot file could not be read or decoded
	ParseError ErrorCode = "PARSE_ERROR"
	// ConfigurationError indicates missing or unreadable configuration inputs
	ConfigurationError ErrorCode = "CONFIGURATION_ERROR"
	// InternalError indicates an unexpected failure
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// Error is a coded error with an actionable suggestion for the caller.
type Error struct {
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
	cause      error
}

// New creates a coded error.
func New(code ErrorCode, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion}
}

// Wrap creates a coded error with an underlying cause.
func Wrap(code ErrorCode, message, suggestion string, cause error) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion, cause: cause}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetails attaches structured detail to the error.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// As re-exports the standard library helper so callers need only one
// errors import.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Is re-exports the standard library helper.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// CodeOf returns the error code of err, or InternalError when err carries none.
func CodeOf(err error) ErrorCode {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return InternalError
}

// IsDataNotFound reports whether err is a DataNotFound error.
// Range scans use this to treat missing days as zero contribution.
func IsDataNotFound(err error) bool {
	return CodeOf(err) == DataNotFound
}

// IsInvalidParameter reports whether err is an InvalidParameter error.
func IsInvalidParameter(err error) bool {
	return CodeOf(err) == InvalidParameter
}

// IsParseError reports whether err is a ParseError.
func IsParseError(err error) bool {
	return CodeOf(err) == ParseError
}
