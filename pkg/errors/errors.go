// Package errors provides structured error types for the userdir client.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the client library and CLI
//   - Machine-readable error codes for programmatic handling
//   - An explicit transient/permanent split that drives retries
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Transient codes describe failures that may succeed on a later attempt:
//   - TIMEOUT: the remote reported a request timeout, or the request deadline passed
//   - TRANSPORT_FAILURE: the connection could not be established or was dropped
//
// All other codes are permanent and are never retried.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidArgument, "user id must be positive, got %d", id)
//	if errors.Is(err, errors.ErrCodeInvalidArgument) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTransport, origErr, "GET %s", url)
//	if errors.IsTransient(err) {
//	    // Worth another attempt
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Caller errors
	ErrCodeInvalidArgument Code = "INVALID_ARGUMENT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	// Transient remote errors
	ErrCodeTimeout   Code = "TIMEOUT"
	ErrCodeTransport Code = "TRANSPORT_FAILURE"

	// Permanent remote errors
	ErrCodeService Code = "SERVICE_ERROR"
	ErrCodeParse   Code = "PARSE_ERROR"

	// Caller gave up
	ErrCodeCancelled Code = "CANCELLED"
)

// Transient reports whether errors with this code are eligible for retry.
func (c Code) Transient() bool {
	return c == ErrCodeTimeout || c == ErrCodeTransport
}

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

// Transient reports whether the error's code is eligible for retry.
func (e *Error) Transient() bool {
	return e.Code.Transient()
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
// Only the outermost *Error in the chain is consulted, so a SERVICE_ERROR
// wrapping a TIMEOUT reports SERVICE_ERROR.
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

// IsTransient reports whether err is classified as transient: either its
// outermost *Error carries a transient code, or it is marked with
// [RetryableError].
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.As(err, new(*RetryableError)) {
		return true
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Transient()
	}
	return false
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

// RetryableError marks an arbitrary error as transient regardless of its code.
// Wrap failures from foreign code with this type so that [IsTransient]
// accepts them.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error returns the error message of the wrapped error.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// StatusError describes a non-success response from the remote directory.
// It is attached as the cause of SERVICE_ERROR and TIMEOUT errors so callers
// can recover the operation, resource and status with errors.As.
type StatusError struct {
	Op         string // Operation name, e.g. "get user" or "list users"
	UserID     int    // Requested user ID (0 for collection requests)
	Page       int    // Requested page (0 for single-user requests)
	StatusCode int    // HTTP status code returned by the remote
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	switch {
	case e.UserID > 0:
		return fmt.Sprintf("%s %d: status %d", e.Op, e.UserID, e.StatusCode)
	case e.Page > 0:
		return fmt.Sprintf("%s page %d: status %d", e.Op, e.Page, e.StatusCode)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	}
}
