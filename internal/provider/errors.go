package provider

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCategory normalizes upstream failures so callers branch on facts, not
// status codes.
type ErrorCategory string

const (
	// ErrorTimeout indicates the provider took too long to respond.
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorAuthentication indicates credential or permission issues.
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorBadData indicates the provider returned invalid or malformed data.
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorNotFound indicates the requested record doesn't exist upstream.
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorRateLimited indicates too many requests.
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorOutage indicates the provider is unavailable (5xx, connect error).
	ErrorOutage ErrorCategory = "provider_outage"

	// ErrorBadRequest indicates the provider rejected our request shape.
	ErrorBadRequest ErrorCategory = "bad_request"

	// ErrorInternal indicates an unexpected internal error.
	ErrorInternal ErrorCategory = "internal"
)

// UpstreamError wraps provider failures with normalized categorization.
type UpstreamError struct {
	Category   ErrorCategory
	Endpoint   string
	StatusCode int
	Message    string
	Underlying error
	Retryable  bool
}

func (e *UpstreamError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("provider %s [%s]: %s: %v", e.Endpoint, e.Category, e.Message, e.Underlying)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s [%s]: %s (status %d)", e.Endpoint, e.Category, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("provider %s [%s]: %s", e.Endpoint, e.Category, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Underlying
}

// NewUpstreamError creates a categorized provider error. Timeouts, outages
// and rate limits are marked retryable.
func NewUpstreamError(category ErrorCategory, endpoint, message string, underlying error) *UpstreamError {
	retryable := category == ErrorTimeout ||
		category == ErrorOutage ||
		category == ErrorRateLimited

	return &UpstreamError{
		Category:   category,
		Endpoint:   endpoint,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

func errorFromStatus(endpoint string, status int) *UpstreamError {
	var category ErrorCategory
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		category = ErrorAuthentication
	case status == http.StatusNotFound:
		category = ErrorNotFound
	case status == http.StatusBadRequest:
		category = ErrorBadRequest
	case status == http.StatusTooManyRequests:
		category = ErrorRateLimited
	case status >= 500:
		category = ErrorOutage
	default:
		category = ErrorInternal
	}
	err := NewUpstreamError(category, endpoint, "unexpected response", nil)
	err.StatusCode = status
	return err
}

// IsRetryable reports whether an error is worth retrying.
func IsRetryable(err error) bool {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Retryable
	}
	return false
}

// Category extracts the error category, defaulting to internal.
func Category(err error) ErrorCategory {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Category
	}
	return ErrorInternal
}

// IsNoData reports whether the provider answered "no data for this vehicle".
// The trended endpoint signals this with 404; it also returns 400 for some
// malformed identities, which callers treat the same way by contract.
func IsNoData(err error) bool {
	c := Category(err)
	return c == ErrorNotFound || c == ErrorBadRequest
}
