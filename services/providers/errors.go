package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies provider failures
type ErrorKind string

const (
	KindTimeout         ErrorKind = "timeout"
	KindRateLimited     ErrorKind = "rate_limited"
	KindInvalidResponse ErrorKind = "invalid_response"
	KindTransport       ErrorKind = "transport"
	KindAuth            ErrorKind = "auth"
	KindUpstream        ErrorKind = "upstream"
)

// ProviderError represents a classified error from a provider
type ProviderError struct {
	// Provider that generated the error
	Provider string

	Kind ErrorKind

	// Message is the error message
	Message string

	// StatusCode is the HTTP status code (if applicable)
	StatusCode int

	// Retryable indicates if the request can be retried
	Retryable bool

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: %s (status %d): %s", e.Provider, e.Kind, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap implements error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a new provider error
func NewProviderError(provider string, kind ErrorKind, message string, statusCode int, retryable bool, cause error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Kind:       kind,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  retryable,
		Cause:      cause,
	}
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Retryable
	}
	return false
}

// KindOf returns the kind of a provider error, or "" for other errors
func KindOf(err error) ErrorKind {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Kind
	}
	return ""
}

// ClassifyStatus maps a non-2xx status code to a provider error
func ClassifyStatus(provider string, status int, message string) *ProviderError {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewProviderError(provider, KindAuth, message, status, false, nil)
	case status == http.StatusTooManyRequests:
		return NewProviderError(provider, KindRateLimited, message, status, true, nil)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return NewProviderError(provider, KindTimeout, message, status, true, nil)
	case status >= 500:
		return NewProviderError(provider, KindUpstream, message, status, true, nil)
	default:
		return NewProviderError(provider, KindUpstream, message, status, false, nil)
	}
}

// ClassifyTransport wraps an error raised before any response arrived.
// Deadline errors become timeouts; a cancelled caller is not retryable.
func ClassifyTransport(provider string, err error) *ProviderError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return NewProviderError(provider, KindTimeout, "request timed out", 0, true, err)
	case errors.Is(err, context.Canceled):
		return NewProviderError(provider, KindTransport, "request cancelled", 0, false, err)
	default:
		return NewProviderError(provider, KindTransport, "request failed", 0, true, err)
	}
}
