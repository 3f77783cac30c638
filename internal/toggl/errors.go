package toggl

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for API failure classes. APIError unwraps to these so
// callers can use errors.Is without inspecting status codes.
var (
	ErrRateLimited     = errors.New("rate limited")
	ErrAuthFailed      = errors.New("authentication failed")
	ErrPremiumRequired = errors.New("requires a premium or enterprise plan")
	ErrNotFound        = errors.New("resource not found")
	ErrMissingToken    = errors.New("missing api token")
)

// APIError is a non-2xx response from the Toggl API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("toggl: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("toggl: unexpected status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthFailed
	case http.StatusPaymentRequired:
		return ErrPremiumRequired
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// retryable reports whether the request should be retried with backoff.
func (e *APIError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
