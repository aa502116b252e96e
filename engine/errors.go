// ABOUTME: Error types and handling for the search engine facade
// ABOUTME: Classifies core failures into structured errors callers can switch on

package engine

import (
	"context"
	"errors"
	"fmt"

	coreerrors "github.com/byfranke/PastebinSearch/core/errors"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeValidation indicates a bad search term or filter
	ErrorTypeValidation ErrorType = "validation"

	// ErrorTypeUnreachable indicates the connectivity probe failed
	ErrorTypeUnreachable ErrorType = "unreachable"

	// ErrorTypeNetwork indicates a transport failure outside the probe
	ErrorTypeNetwork ErrorType = "network"

	// ErrorTypeCanceled indicates the caller's context ended
	ErrorTypeCanceled ErrorType = "canceled"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "internal"

	// ErrorTypeConfiguration indicates a configuration error
	ErrorTypeConfiguration ErrorType = "configuration"
)

// Error represents a structured error from the engine
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new error with the given type and message
func NewError(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// WithCause adds a cause to the error
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Common errors
var (
	// ErrClosed is returned when operations are attempted on a closed engine
	ErrClosed = NewError(ErrorTypeInternal, "engine is closed")

	// ErrNoCache is returned by ClearCache when result caching is disabled
	ErrNoCache = NewError(ErrorTypeConfiguration, "result cache is disabled")
)

// classify wraps err from the core packages, keeping the original reachable through Unwrap
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}

	var (
		validation  *coreerrors.ValidationError
		unreachable *coreerrors.UnreachableError
	)
	switch {
	case errors.As(err, &validation):
		return NewError(ErrorTypeValidation, validation.Message).
			WithCause(err).
			WithContext("op", op).
			WithContext("field", validation.Field)
	case errors.As(err, &unreachable):
		return NewError(ErrorTypeUnreachable, unreachable.Detail).
			WithCause(err).
			WithContext("op", op).
			WithContext("suggested_fix", unreachable.SuggestedFix)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return NewError(ErrorTypeCanceled, "operation interrupted").WithCause(err).WithContext("op", op)
	case coreerrors.IsTLS(err), coreerrors.IsConnect(err), coreerrors.IsTimeout(err):
		return NewError(ErrorTypeNetwork, "upstream request failed").WithCause(err).WithContext("op", op)
	default:
		return NewError(ErrorTypeInternal, op+" failed").WithCause(err).WithContext("op", op)
	}
}

func hasType(err error, errType ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == errType
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return hasType(err, ErrorTypeValidation)
}

// IsUnreachableError checks if an error reports a failed connectivity probe
func IsUnreachableError(err error) bool {
	return hasType(err, ErrorTypeUnreachable)
}

// IsNetworkError checks if an error is a network error
func IsNetworkError(err error) bool {
	return hasType(err, ErrorTypeNetwork)
}

// IsCanceledError checks if the caller's context ended the operation
func IsCanceledError(err error) bool {
	return hasType(err, ErrorTypeCanceled)
}

// IsConfigurationError checks if an error is a configuration error
func IsConfigurationError(err error) bool {
	return hasType(err, ErrorTypeConfiguration)
}
