// Package resilience provides admission control and deadline primitives for
// remote probes.
//
// # Patterns
//
//   - Keyed rate limiting: KeyedLimiter counts admissions per key within a
//     fixed window, denying everything past the configured maximum until the
//     window resets. Denied attempts keep counting.
//
//   - Deadline racing: Within runs an operation against a timer and fails
//     fast with ErrTimeout when the timer wins, abandoning the operation's
//     eventual result.
//
// # Usage
//
//	limiter := resilience.NewKeyedLimiter(resilience.StrictLimits())
//	if !limiter.Allow(userID) {
//	    return resilience.ErrRateLimitExceeded
//	}
//
//	status, err := resilience.Within(ctx, 10*time.Second,
//	    func(ctx context.Context) (ConnectionStatus, error) {
//	        return provider.ConnectionStatus(ctx, userID)
//	    })
//
// Neither primitive retries: a denied or timed-out call surfaces
// immediately and the caller decides what happens next.
package resilience
