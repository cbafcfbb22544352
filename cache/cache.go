package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for cache operations.
var (
	ErrNilClient = errors.New("cache: redis client is nil")
	ErrEncode    = errors.New("cache: value encoding failed")
	ErrBackend   = errors.New("cache: backend write failed")
)

// DefaultTTL is how long a stored snapshot stays readable unless a store is
// configured otherwise.
const DefaultTTL = 5 * time.Minute

// Store is the interface for TTL-bounded snapshot caching.
//
// Contract:
// - Concurrency: safe for use from multiple goroutines.
// - Context: methods honor cancellation where the backend blocks; the
//   in-memory store ignores it.
// - Errors: Get never errors; it returns (zero, false) on miss and never
//   returns a value older than the TTL. Put overwrites unconditionally,
//   last writer wins.
type Store[V any] interface {
	// Get retrieves a live value. Returns (zero, false) on miss or expiry.
	Get(ctx context.Context, key string) (V, bool)

	// Put stores a value, stamping it with the current time.
	Put(ctx context.Context, key string, value V) error
}
