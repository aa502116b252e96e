// ABOUTME: Custom error types for the core search engine
// ABOUTME: Classifies transport failures so callers can translate them into user guidance

package errors

import (
	"errors"
	"fmt"
)

// TLSError represents a failed TLS handshake or certificate verification
type TLSError struct {
	URL   string
	Cause error
}

// Error implements the error interface
func (e *TLSError) Error() string {
	return fmt.Sprintf("tls error for %s: %v", e.URL, e.Cause)
}

func (e *TLSError) Unwrap() error { return e.Cause }

// ConnectError represents a DNS, dial or connection reset failure
type ConnectError struct {
	URL   string
	Cause error
}

// Error implements the error interface
func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect error for %s: %v", e.URL, e.Cause)
}

func (e *ConnectError) Unwrap() error { return e.Cause }

// TimeoutError represents a request that exceeded the session timeout
type TimeoutError struct {
	URL   string
	Cause error
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout fetching %s: %v", e.URL, e.Cause)
}

func (e *TimeoutError) Unwrap() error { return e.Cause }

// HTTPError represents a non-2xx response
type HTTPError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error from %s: status %d", e.URL, e.StatusCode)
}

// UnreachableError is returned when the connectivity probe shows the site cannot be reached at all
type UnreachableError struct {
	Detail       string
	SuggestedFix string
	Cause        error
}

// Error implements the error interface
func (e *UnreachableError) Error() string {
	if e.SuggestedFix != "" {
		return fmt.Sprintf("site unreachable: %s (%s)", e.Detail, e.SuggestedFix)
	}
	return fmt.Sprintf("site unreachable: %s", e.Detail)
}

func (e *UnreachableError) Unwrap() error { return e.Cause }

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// IsTLS checks if an error is a TLSError
func IsTLS(err error) bool {
	var tlsErr *TLSError
	return errors.As(err, &tlsErr)
}

// IsConnect checks if an error is a ConnectError
func IsConnect(err error) bool {
	var connErr *ConnectError
	return errors.As(err, &connErr)
}

// IsTimeout checks if an error is a TimeoutError
func IsTimeout(err error) bool {
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}

// IsHTTP checks if an error is an HTTPError and returns its status code
func IsHTTP(err error) (int, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}
	return 0, false
}

// IsUnreachable checks if an error is an UnreachableError
func IsUnreachable(err error) bool {
	var unreachableErr *UnreachableError
	return errors.As(err, &unreachableErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
