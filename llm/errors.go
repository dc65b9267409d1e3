package llm

import (
	"errors"
	"fmt"
	"net"
)

var (
	// ErrEmptyResponse indicates the provider returned no usable text.
	ErrEmptyResponse = errors.New("empty completion response")

	// ErrMalformedResponse indicates a response body missing choices or
	// message content. Treated as transient: another attempt or model
	// may succeed.
	ErrMalformedResponse = errors.New("malformed completion response")
)

// APIError represents an HTTP-level completion endpoint error.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("completion API error %d: %s", e.StatusCode, e.Message)
}

// IsAuthError reports whether err is a credential problem (401/403).
// Auth errors are never retried with the same credentials.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}

// IsRateLimited reports whether err is a 429 from the endpoint.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}

// IsRetryable reports whether the error may succeed on another attempt
// or model: rate limits, 5xx, network blips, and malformed or empty
// responses.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if IsAuthError(err) {
		return false
	}

	if errors.Is(err, ErrMalformedResponse) || errors.Is(err, ErrEmptyResponse) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
