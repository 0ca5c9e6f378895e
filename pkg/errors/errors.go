// Package errors provides structured error types for meshview.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the renderer
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Rendering errors carry the identity of the element that failed:
//   - CONNECTION_ERROR: a core/direction connection is missing from the topology
//   - MANYCORE_MISMATCH: the architecture lacks a channel or load record
//   - INVALID_CONFIGURATION: bad attribute configuration or grid dimensions
//   - ROUTING_ERROR: the routing collaborator rejected the request
//
// The remaining codes follow the INVALID_*, NOT_FOUND_*, INTERNAL_* convention.
//
// # Usage
//
//	err := errors.ConnectionError(3, "North")
//	if errors.Is(err, errors.ErrCodeConnection) {
//	    // Handle topology error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "failed to decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Rendering errors
	ErrCodeConnection       Code = "CONNECTION_ERROR"
	ErrCodeManycoreMismatch Code = "MANYCORE_MISMATCH"
	ErrCodeConfiguration    Code = "INVALID_CONFIGURATION"
	ErrCodeRouting          Code = "ROUTING_ERROR"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

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

// ConnectionError reports that the connection of a core in the given
// direction is not part of the composed topology.
func ConnectionError(coreID int, direction fmt.Stringer) *Error {
	return New(ErrCodeConnection, "could not get connection %s for core %d", direction, coreID)
}

// MissingConnections reports that a core has no topology entry at all.
func MissingConnections(coreID int) *Error {
	return New(ErrCodeConnection, "could not get connections for core %d", coreID)
}

// MissingChannel reports that the architecture has no channel record for a
// core in a direction the overlay needs.
func MissingChannel(coreID int, direction fmt.Stringer) *Error {
	return New(ErrCodeManycoreMismatch, "could not retrieve %s channel for core %d", direction, coreID)
}

// MissingSourceLoad reports a border source whose load has no record in
// the architecture.
func MissingSourceLoad(coreID int, direction fmt.Stringer) *Error {
	return New(ErrCodeManycoreMismatch, "could not retrieve %s source load for core %d", direction, coreID)
}

// MissingCore reports a reference to a core id the architecture does not contain.
func MissingCore(coreID int) *Error {
	return New(ErrCodeManycoreMismatch, "core %d does not exist", coreID)
}

// ConfigurationError reports an invalid attribute configuration or grid shape.
func ConfigurationError(format string, args ...any) *Error {
	return New(ErrCodeConfiguration, format, args...)
}

// RoutingError wraps a failure of the routing collaborator.
func RoutingError(algorithm string, cause error) *Error {
	return Wrap(ErrCodeRouting, cause, "routing with algorithm %q failed", algorithm)
}
