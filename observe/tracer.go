package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// ProbeMeta identifies a connection probe for telemetry purposes.
type ProbeMeta struct {
	Op       string // probe operation, e.g. "health", "status", "test", "refresh"
	Provider string // upstream integration slug, e.g. "calendar"; may be empty
}

// SpanName returns the deterministic span name for this probe,
// health.probe.<op>.
func (m ProbeMeta) SpanName() string {
	return "health.probe." + m.Op
}

// attributes returns the common telemetry attributes for this probe.
func (m ProbeMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("probe.op", m.Op)}
	if m.Provider != "" {
		attrs = append(attrs, attribute.String("probe.provider", m.Provider))
	}
	return attrs
}

// Tracer manages spans around connection probes.
//
// Contract:
// - Concurrency: safe for use from multiple goroutines.
// - Context: StartSpan derives its span context from ctx and respects cancellation.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan opens a span for one probe and returns the span context.
	StartSpan(ctx context.Context, meta ProbeMeta) (context.Context, trace.Span)

	// EndSpan closes the span, recording err when non-nil.
	EndSpan(span trace.Span, err error)
}

// otelTracer emits real OpenTelemetry spans.
type otelTracer struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer in the probe span protocol.
func NewTracer(t trace.Tracer) Tracer {
	return &otelTracer{tracer: t}
}

func (t *otelTracer) StartSpan(ctx context.Context, meta ProbeMeta) (context.Context, trace.Span) {
	// probe.error starts false and flips in EndSpan on failure.
	attrs := append(meta.attributes(), attribute.Bool("probe.error", false))
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *otelTracer) EndSpan(span trace.Span, err error) {
	defer span.End()
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.Bool("probe.error", true))
	span.RecordError(err)
}

// nopTracer produces inert spans.
type nopTracer struct {
	tracer trace.Tracer
}

// NewNopTracer returns a Tracer whose spans record nothing.
func NewNopTracer() Tracer {
	return &nopTracer{tracer: tracenoop.NewTracerProvider().Tracer("noop")}
}

func (t *nopTracer) StartSpan(ctx context.Context, meta ProbeMeta) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, meta.SpanName())
}

func (t *nopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
