package observe

import (
	"context"
	"testing"
	"time"
)

// The no-op implementations must satisfy the same contracts as the real
// ones so disabled telemetry never needs special casing at call sites.

func TestNopLogger_WithProbe(t *testing.T) {
	logger := NewNopLogger()
	if logger.WithProbe(ProbeMeta{Op: "noop"}) == nil {
		t.Fatal("WithProbe() = nil, want a logger")
	}
	logger.Info(context.Background(), "dropped", Field{Key: "k", Value: "v"})
}

func TestNopMetrics_Record(t *testing.T) {
	m := NewNopMetrics()
	ctx := context.Background()

	m.RecordProbe(ctx, ProbeMeta{Op: "noop"}, 10*time.Millisecond, nil)
	m.RecordCacheHit(ctx)
	m.RecordCacheMiss(ctx)
	m.RecordRateLimitDenied(ctx, ProbeMeta{Op: "noop"})
}

func TestNopTracer_SpanLifecycle(t *testing.T) {
	tracer := NewNopTracer()
	_, span := tracer.StartSpan(context.Background(), ProbeMeta{Op: "noop"})
	tracer.EndSpan(span, nil)
}
