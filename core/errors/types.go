// ABOUTME: Custom error types for the core business logic
// ABOUTME: Maps cache, provider, and configuration failures to distinct recoverable categories

package errors

import (
	"errors"
	"fmt"

	"serp-cluster-api/core/domain"
)

// ErrProviderAuth indicates the ranking provider rejected the supplied
// credentials. Fatal for the run; never retried.
var ErrProviderAuth = errors.New("provider rejected credentials")

// ErrRateLimited indicates the provider throttled a call. Retryable
// with backoff up to a bounded attempt count.
var ErrRateLimited = errors.New("provider rate limited")

// ErrCacheMiss is returned by cache backends when a key is absent or
// expired. Callers treat it the same as any other cache failure: fetch
// live.
var ErrCacheMiss = errors.New("cache: key not found")

// ValidationError represents a configuration or input validation error.
// Validation errors abort the run before any billed fetch occurs.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// FetchError represents a failure to resolve SERP data for a single
// keyword. The keyword proceeds through the pipeline as a singleton
// with no overlap data.
type FetchError struct {
	Keyword domain.Keyword
	Err     error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed for keyword %q: %v", e.Keyword.Text, e.Err)
}

// Unwrap exposes the underlying cause
func (e *FetchError) Unwrap() error {
	return e.Err
}

// ExternalAPIError represents an error from an external API
type ExternalAPIError struct {
	API        string
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("external API error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

// Retryable reports whether the failure is transient. Rate limiting and
// server-side errors are worth retrying; auth and client errors are not.
func (e *ExternalAPIError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsFetch checks if an error is a FetchError
func IsFetch(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

// IsExternalAPI checks if an error is an ExternalAPIError
func IsExternalAPI(err error) bool {
	var apiErr *ExternalAPIError
	return errors.As(err, &apiErr)
}

// IsRetryable reports whether err may succeed on retry. Auth failures
// never do, rate limiting does, and external API errors decide for
// themselves.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrProviderAuth) {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *ExternalAPIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return false
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
