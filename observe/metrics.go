package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Metrics records connection probe metrics.
//
// Contract:
// - Concurrency: safe for use from multiple goroutines.
// - Context: recording must be quick and respect cancellation.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordProbe records a probe with duration and error status.
	RecordProbe(ctx context.Context, meta ProbeMeta, duration time.Duration, err error)

	// RecordCacheHit records a snapshot served from cache.
	RecordCacheHit(ctx context.Context)

	// RecordCacheMiss records a snapshot that had to be recomputed.
	RecordCacheMiss(ctx context.Context)

	// RecordRateLimitDenied records an admission rejected by a rate limiter.
	RecordRateLimitDenied(ctx context.Context, meta ProbeMeta)
}

type metricsImpl struct {
	meter         metric.Meter
	probeTotal    metric.Int64Counter
	probeErrors   metric.Int64Counter
	probeDuration metric.Float64Histogram
	cacheHits     metric.Int64Counter
	cacheMisses   metric.Int64Counter
	limiterDenied metric.Int64Counter
}

// NewMetrics registers the probe instrument set on the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	var err error
	counter := func(name, desc, unit string) metric.Int64Counter {
		if err != nil {
			return nil
		}
		var c metric.Int64Counter
		c, err = meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		return c
	}

	m := &metricsImpl{meter: meter}
	m.probeTotal = counter("health.probe.total", "Total number of connection probes", "{call}")
	m.probeErrors = counter("health.probe.errors", "Total number of failed connection probes", "{error}")
	m.cacheHits = counter("health.cache.hits", "Snapshots served from cache", "{hit}")
	m.cacheMisses = counter("health.cache.misses", "Snapshots recomputed after a cache miss", "{miss}")
	m.limiterDenied = counter("health.ratelimit.denied", "Requests rejected by a rate limiter", "{denial}")
	if err != nil {
		return nil, err
	}

	m.probeDuration, err = meter.Float64Histogram(
		"health.probe.duration_ms",
		metric.WithDescription("Connection probe duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordProbe counts the probe, counts its failure if any, and records the
// duration, all under the probe's attributes.
func (m *metricsImpl) RecordProbe(ctx context.Context, meta ProbeMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(meta.attributes()...)

	m.probeTotal.Add(ctx, 1, opt)
	if err != nil {
		m.probeErrors.Add(ctx, 1, opt)
	}
	m.probeDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordCacheHit(ctx context.Context) {
	m.cacheHits.Add(ctx, 1)
}

func (m *metricsImpl) RecordCacheMiss(ctx context.Context) {
	m.cacheMisses.Add(ctx, 1)
}

func (m *metricsImpl) RecordRateLimitDenied(ctx context.Context, meta ProbeMeta) {
	m.limiterDenied.Add(ctx, 1, metric.WithAttributes(meta.attributes()...))
}

// nopMetrics drops every measurement.
type nopMetrics struct{}

// NewNopMetrics returns a Metrics that discards everything.
func NewNopMetrics() Metrics { return &nopMetrics{} }

func (m *nopMetrics) RecordProbe(ctx context.Context, meta ProbeMeta, duration time.Duration, err error) {
}
func (m *nopMetrics) RecordCacheHit(ctx context.Context)                        {}
func (m *nopMetrics) RecordCacheMiss(ctx context.Context)                       {}
func (m *nopMetrics) RecordRateLimitDenied(ctx context.Context, meta ProbeMeta) {}
