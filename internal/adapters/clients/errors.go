// Package clients provides HTTP client adapters for downstream services.
package clients

import (
	"errors"
	"fmt"
)

// Transport-level failures. Callers translate these into domain errors.
var (
	// ErrCircuitOpen means the breaker is rejecting calls to an unhealthy dependency.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last retryable status once attempts run out.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")

	// ErrAuth means credentials could not be attached to a request.
	ErrAuth = errors.New("request authentication failed")
)

// StatusError records a retryable status code from the downstream service.
type StatusError struct {
	Service    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded with status %d", e.Service, e.StatusCode)
}
