package resilience

import "errors"

// Sentinels callers can match with errors.Is.
var (
	// ErrRateLimitExceeded: a limiter denied the request for this window.
	ErrRateLimitExceeded = errors.New("resilience: rate limit exceeded")

	// ErrTimeout: the wrapped operation outlived its deadline.
	ErrTimeout = errors.New("resilience: operation timed out")
)
