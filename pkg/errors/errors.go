package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a store error
type Kind string

const (
	// KindValidation means the input failed domain validation
	KindValidation Kind = "VALIDATION"
	// KindNotFound means the referenced idea or resource does not exist
	// for the calling owner
	KindNotFound Kind = "NOT_FOUND"
	// KindUnauthorized means no active session
	KindUnauthorized Kind = "UNAUTHORIZED"
	// KindTransient means an I/O or network failure that is safe to retry
	KindTransient Kind = "TRANSIENT"
	// KindUnknown means an unexpected failure, logged with detail
	KindUnknown Kind = "UNKNOWN"
)

// StoreError is the single error type crossing the store boundary.
// Persistence-medium faults are always converted to one of its kinds
// before they reach a caller.
type StoreError struct {
	Kind       Kind                   `json:"kind"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// WithDetails adds structured detail to the error
func (e *StoreError) WithDetails(details map[string]interface{}) *StoreError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *StoreError) WithCause(err error) *StoreError {
	e.Cause = err
	return e
}

// Retryable reports whether the caller may safely retry the operation
func (e *StoreError) Retryable() bool {
	return e.Kind == KindTransient
}

// Constructor functions for the store error kinds

// NewValidationError creates a validation error
func NewValidationError(message string) *StoreError {
	return &StoreError{
		Kind:       KindValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a not found error for a named entity
func NewNotFoundError(entity string) *StoreError {
	return &StoreError{
		Kind:       KindNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *StoreError {
	if message == "" {
		message = "no active session"
	}
	return &StoreError{
		Kind:       KindUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewTransientError creates a retryable error from a persistence fault
func NewTransientError(message string, err error) *StoreError {
	return &StoreError{
		Kind:       KindTransient,
		Message:    message,
		Cause:      err,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// NewUnknownError creates an error for an unexpected failure
func NewUnknownError(message string, err error) *StoreError {
	return &StoreError{
		Kind:       KindUnknown,
		Message:    message,
		Cause:      err,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// FromPersistence maps a raw persistence-medium fault to a StoreError.
// Context cancellation and deadline expiry are transient: the in-memory
// snapshot is left unchanged and the caller decides whether to retry.
func FromPersistence(operation string, err error) *StoreError {
	if err == nil {
		return nil
	}
	if se := GetStoreError(err); se != nil {
		return se
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewTransientError(fmt.Sprintf("operation %q interrupted", operation), err)
	}
	return NewUnknownError(fmt.Sprintf("operation %q failed", operation), err)
}

// Helper functions

// IsStoreError checks if an error is a StoreError
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// GetStoreError extracts a StoreError from an error chain
func GetStoreError(err error) *StoreError {
	var se *StoreError
	if errors.As(err, &se) {
		return se
	}
	return nil
}

// IsKind checks if an error is of a specific kind
func IsKind(err error, kind Kind) bool {
	se := GetStoreError(err)
	return se != nil && se.Kind == kind
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsKind(err, KindValidation)
}

// IsUnauthorized checks if an error is an unauthorized error
func IsUnauthorized(err error) bool {
	return IsKind(err, KindUnauthorized)
}

// IsTransient checks if an error is a transient error
func IsTransient(err error) bool {
	return IsKind(err, KindTransient)
}

// IsUnknown checks if an error is an unknown error
func IsUnknown(err error) bool {
	return IsKind(err, KindUnknown)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already a StoreError, add context to the message
	if se := GetStoreError(err); se != nil {
		se.Message = fmt.Sprintf("%s: %s", message, se.Message)
		return se
	}

	return NewUnknownError(message, err)
}

// Wrapf wraps an error with a formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
