package resilience

import (
	"context"
	"time"
)

// Within runs op with a deadline of d and races its completion against the
// timer. If the deadline fires first the call fails with ErrTimeout and the
// operation is abandoned: it keeps running until it observes the cancelled
// context, but its eventual result is discarded. If op completes first its
// result or error is propagated unchanged.
func Within[T any](ctx context.Context, d time.Duration, op func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}

	// Buffered so an abandoned operation can still send and exit.
	done := make(chan outcome, 1)

	go func() {
		v, err := op(ctx)
		done <- outcome{value: v, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-ctx.Done():
		var zero T
		if ctx.Err() == context.DeadlineExceeded {
			return zero, ErrTimeout
		}
		return zero, ctx.Err()
	}
}
