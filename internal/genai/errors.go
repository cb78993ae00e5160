// Package genai provides completion clients for generating post content via
// external large-language-model endpoints.
package genai

import (
	"errors"
	"fmt"
)

// Error variables for terminal completion failures. None of these are retried
// by the client; a single attempt per call is the contract.
var (
	// ErrTimeout indicates the request exceeded the configured deadline.
	ErrTimeout = errors.New("completion request timed out")
	// ErrMalformedResponse indicates the upstream returned a well-formed HTTP
	// response whose body violates the expected envelope shape.
	ErrMalformedResponse = errors.New("malformed completion response")
	// ErrEmptyContent indicates a structurally valid response whose generated
	// text is empty or whitespace-only.
	ErrEmptyContent = errors.New("completion returned empty content")
)

// NetworkError wraps a transport-level failure (DNS, connection reset, TLS).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// UpstreamError carries a non-200 status and the response body for
// diagnostics. The body is logged, not surfaced raw to API callers.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion endpoint returned status %d: %s", e.StatusCode, e.Body)
}
