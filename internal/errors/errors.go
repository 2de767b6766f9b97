// Package errors provides structured error handling with context propagation and HTTP status code mapping.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error for metrics and response formatting.
type ErrorType string

const (
	// TypeValidation indicates a missing or malformed required field (HTTP 400)
	TypeValidation ErrorType = "validation"
	// TypeUnauthorized indicates a request from a non-backend origin (HTTP 403)
	TypeUnauthorized ErrorType = "unauthorized"
	// TypeNotFound indicates an unknown token or identifier (HTTP 404)
	TypeNotFound ErrorType = "not_found"
	// TypeStore indicates the persistence backend is unavailable or a write failed (HTTP 503)
	TypeStore ErrorType = "store"
	// TypePartialSync indicates a durable write succeeded but the dependent
	// group-binding refresh failed (HTTP 500). Kept distinct from TypeInternal
	// so operators can detect drift between durable and broadcast state.
	TypePartialSync ErrorType = "partial_sync"
	// TypeNotImplemented indicates a stub command (HTTP 501)
	TypeNotImplemented ErrorType = "not_implemented"
	// TypeInternal indicates any other server-side error (HTTP 500)
	TypeInternal ErrorType = "internal"
)

// Error represents a structured error with type, message, and context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for this error type.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeUnauthorized:
		return http.StatusForbidden
	case TypeNotFound:
		return http.StatusNotFound
	case TypeStore:
		return http.StatusServiceUnavailable
	case TypeNotImplemented:
		return http.StatusNotImplemented
	case TypePartialSync, TypeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError creates a new validation error (HTTP 400).
func ValidationError(message string) *Error {
	return &Error{
		Type:    TypeValidation,
		Message: message,
		Context: make(map[string]any),
	}
}

// UnauthorizedError creates a new unauthorized error (HTTP 403).
func UnauthorizedError(message string) *Error {
	return &Error{
		Type:    TypeUnauthorized,
		Message: message,
		Context: make(map[string]any),
	}
}

// NotFoundError creates a new not-found error (HTTP 404).
func NotFoundError(message string) *Error {
	return &Error{
		Type:    TypeNotFound,
		Message: message,
		Context: make(map[string]any),
	}
}

// StoreError creates a new store-unavailable error (HTTP 503).
func StoreError(message string, cause error) *Error {
	return &Error{
		Type:    TypeStore,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// PartialSyncError creates a new partial-sync error (HTTP 500).
func PartialSyncError(message string, cause error) *Error {
	return &Error{
		Type:    TypePartialSync,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// NotImplementedError creates a new not-implemented error (HTTP 501).
func NotImplementedError(message string) *Error {
	return &Error{
		Type:    TypeNotImplemented,
		Message: message,
		Context: make(map[string]any),
	}
}

// InternalError creates a new internal error (HTTP 500).
func InternalError(message string, cause error) *Error {
	return &Error{
		Type:    TypeInternal,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// WithField adds a context field to the error (chainable).
func (e *Error) WithField(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// ErrorResponse represents the JSON structure sent to clients.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Type    ErrorType      `json:"type"`
	Context map[string]any `json:"context,omitempty"`
}

// ToResponse converts an Error to an ErrorResponse for JSON serialization.
func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Type:    e.Type,
		Context: e.Context,
	}
}

// AsStructuredError converts any error into a structured Error.
// If err is already an *Error, returns it unchanged.
// Otherwise wraps it as an internal error.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	return InternalError("internal server error", err)
}
