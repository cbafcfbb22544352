package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// recordingTracer wires a span recorder behind a Tracer for assertions.
func recordingTracer() (Tracer, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return NewTracer(tp.Tracer("test")), recorder
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(s.Attributes()))
	for _, a := range s.Attributes() {
		m[string(a.Key)] = a.Value
	}
	return m
}

func TestProbeMeta_SpanName(t *testing.T) {
	tests := []struct {
		meta ProbeMeta
		want string
	}{
		{ProbeMeta{Op: "health", Provider: "calendar"}, "health.probe.health"},
		{ProbeMeta{Op: "refresh"}, "health.probe.refresh"},
		{ProbeMeta{Op: "status"}, "health.probe.status"},
	}

	for _, tt := range tests {
		if got := tt.meta.SpanName(); got != tt.want {
			t.Errorf("SpanName() = %q, want %q", got, tt.want)
		}
	}
}

func TestTracer_SpanAttributes(t *testing.T) {
	tr, recorder := recordingTracer()

	_, span := tr.StartSpan(context.Background(), ProbeMeta{Op: "status", Provider: "calendar"})
	tr.EndSpan(span, nil)

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(ended))
	}
	s := ended[0]

	if s.Name() != "health.probe.status" {
		t.Errorf("span name = %q, want health.probe.status", s.Name())
	}
	if s.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", s.Status().Code)
	}

	attrs := spanAttrs(s)
	if got := attrs["probe.op"].AsString(); got != "status" {
		t.Errorf("probe.op = %q, want status", got)
	}
	if got := attrs["probe.provider"].AsString(); got != "calendar" {
		t.Errorf("probe.provider = %q, want calendar", got)
	}
	if v, ok := attrs["probe.error"]; !ok || v.AsBool() {
		t.Errorf("probe.error = %v, want present and false", v)
	}
}

func TestTracer_OmitsEmptyProvider(t *testing.T) {
	tr, recorder := recordingTracer()

	_, span := tr.StartSpan(context.Background(), ProbeMeta{Op: "test"})
	tr.EndSpan(span, nil)

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(ended))
	}

	attrs := spanAttrs(ended[0])
	if _, ok := attrs["probe.provider"]; ok {
		t.Error("probe.provider should be absent for probes without a provider")
	}
	if _, ok := attrs["probe.op"]; !ok {
		t.Error("probe.op attribute missing")
	}
}

func TestTracer_ParentChild(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	raw := tp.Tracer("test")
	tr := NewTracer(raw)

	parentCtx, parent := raw.Start(context.Background(), "request")
	_, child := tr.StartSpan(parentCtx, ProbeMeta{Op: "health"})
	tr.EndSpan(child, nil)
	parent.End()

	var probeSpan sdktrace.ReadOnlySpan
	for _, s := range recorder.Ended() {
		if s.Name() == "health.probe.health" {
			probeSpan = s
		}
	}
	if probeSpan == nil {
		t.Fatal("probe span was not recorded")
	}

	if probeSpan.Parent().TraceID() != parent.SpanContext().TraceID() {
		t.Error("probe span left the request trace")
	}
	if !probeSpan.Parent().SpanID().IsValid() {
		t.Error("probe span has no parent span ID")
	}
}

func TestTracer_ErrorMarksSpan(t *testing.T) {
	tr, recorder := recordingTracer()

	_, span := tr.StartSpan(context.Background(), ProbeMeta{Op: "test"})
	tr.EndSpan(span, errors.New("upstream unreachable"))

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(ended))
	}
	s := ended[0]

	if s.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", s.Status().Code)
	}
	if v, ok := spanAttrs(s)["probe.error"]; !ok || !v.AsBool() {
		t.Error("probe.error should flip to true on failure")
	}
	if len(s.Events()) == 0 {
		t.Error("expected a recorded error event")
	}
}

func TestNopTracer(t *testing.T) {
	tr := NewNopTracer()

	ctx, span := tr.StartSpan(context.Background(), ProbeMeta{Op: "health"})
	if ctx == nil {
		t.Fatal("StartSpan returned nil context")
	}
	if span.SpanContext().IsValid() {
		t.Error("nop tracer should not mint real span contexts")
	}
	tr.EndSpan(span, errors.New("ignored"))
}
