package observe

import (
	"context"
	"time"
)

// Instruments bundles the probe-facing telemetry primitives.
//
// Contract:
//   - Concurrency: Observe is safe for concurrent use.
//   - Context: the span context is propagated into op.
//   - Errors: errors from op are recorded and propagated unchanged.
type Instruments struct {
	Tracer  Tracer
	Metrics Metrics
	Logger  Logger
}

// NewInstruments creates Instruments from explicit components.
func NewInstruments(tracer Tracer, metrics Metrics, logger Logger) *Instruments {
	return &Instruments{
		Tracer:  tracer,
		Metrics: metrics,
		Logger:  logger,
	}
}

// NewNopInstruments creates Instruments that discard everything.
func NewNopInstruments() *Instruments {
	return NewInstruments(NewNopTracer(), NewNopMetrics(), NewNopLogger())
}

// InstrumentsFromObserver creates Instruments from an Observer.
// This is a convenience function for common use cases.
func InstrumentsFromObserver(obs Observer) (*Instruments, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewInstruments(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Observe runs op inside a span, recording duration, outcome metrics, and a
// log line for the probe.
func (in *Instruments) Observe(ctx context.Context, meta ProbeMeta, op func(context.Context) error) error {
	ctx, span := in.Tracer.StartSpan(ctx, meta)

	start := time.Now()
	err := op(ctx)
	duration := time.Since(start)

	// EndSpan records the error status when err != nil
	in.Tracer.EndSpan(span, err)

	in.Metrics.RecordProbe(ctx, meta, duration, err)

	probeLogger := in.Logger.WithProbe(meta)
	fields := []Field{
		{Key: "duration_ms", Value: float64(duration.Milliseconds())},
	}

	if err != nil {
		fields = append(fields, Field{Key: "error", Value: err.Error()})
		probeLogger.Error(ctx, "probe failed", fields...)
	} else {
		probeLogger.Info(ctx, "probe completed", fields...)
	}

	return err
}
