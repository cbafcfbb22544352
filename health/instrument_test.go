package health

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/localloop/connhealth/observe"
)

// captureMetrics records probe metadata so tests can assert which ops
// the decorator reported.
type captureMetrics struct {
	mu     sync.Mutex
	ops    []string
	failed int
}

func (c *captureMetrics) RecordProbe(_ context.Context, meta observe.ProbeMeta, _ time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = append(c.ops, meta.Op)
	if err != nil {
		c.failed++
	}
}

func (c *captureMetrics) RecordCacheHit(context.Context)                           {}
func (c *captureMetrics) RecordCacheMiss(context.Context)                          {}
func (c *captureMetrics) RecordRateLimitDenied(context.Context, observe.ProbeMeta) {}

func (c *captureMetrics) recorded() ([]string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.ops...), c.failed
}

var _ observe.Metrics = (*captureMetrics)(nil)

func TestInstrumentProvider_NilInstruments(t *testing.T) {
	provider := &fakeProvider{}
	if got := InstrumentProvider(provider, nil); got != Provider(provider) {
		t.Errorf("InstrumentProvider(p, nil) = %T, want the provider unwrapped", got)
	}
}

func TestInstrumentProvider_PassThrough(t *testing.T) {
	clock := newTestClock()
	provider := connectedProvider(clock)
	provider.service = &fakeService{test: ConnectionTest{Connected: true, PrimaryCalendarRef: "cal-primary"}}

	wrapped := InstrumentProvider(provider, observe.NewNopInstruments())
	ctx := context.Background()

	status, err := wrapped.ConnectionStatus(ctx, testID)
	if err != nil {
		t.Fatalf("ConnectionStatus() error = %v", err)
	}
	if !status.Connected {
		t.Errorf("Connected = false, want true")
	}

	test, err := wrapped.TestConnection(ctx, testID)
	if err != nil {
		t.Fatalf("TestConnection() error = %v", err)
	}
	if test.PrimaryCalendarRef != "cal-primary" {
		t.Errorf("PrimaryCalendarRef = %q, want %q", test.PrimaryCalendarRef, "cal-primary")
	}

	svc, err := wrapped.RefreshableService(ctx, testID)
	if err != nil {
		t.Fatalf("RefreshableService() error = %v", err)
	}
	if svc == nil {
		t.Fatalf("RefreshableService() = nil, want a wrapped handle")
	}
	svcTest, err := svc.TestConnection(ctx)
	if err != nil {
		t.Fatalf("service TestConnection() error = %v", err)
	}
	if !svcTest.Connected {
		t.Errorf("service Connected = false, want true")
	}
}

func TestInstrumentProvider_RecordsProbes(t *testing.T) {
	clock := newTestClock()
	provider := connectedProvider(clock)
	provider.service = &fakeService{test: ConnectionTest{Connected: true}}

	metrics := &captureMetrics{}
	in := observe.NewInstruments(observe.NewNopTracer(), metrics, observe.NewNopLogger())
	wrapped := InstrumentProvider(provider, in)
	ctx := context.Background()

	if _, err := wrapped.ConnectionStatus(ctx, testID); err != nil {
		t.Fatalf("ConnectionStatus() error = %v", err)
	}
	if _, err := wrapped.TestConnection(ctx, testID); err != nil {
		t.Fatalf("TestConnection() error = %v", err)
	}
	svc, err := wrapped.RefreshableService(ctx, testID)
	if err != nil {
		t.Fatalf("RefreshableService() error = %v", err)
	}
	if _, err := svc.TestConnection(ctx); err != nil {
		t.Fatalf("service TestConnection() error = %v", err)
	}

	ops, failed := metrics.recorded()
	want := []string{"status", "test", "service", "test"}
	if len(ops) != len(want) {
		t.Fatalf("recorded ops = %v, want %v", ops, want)
	}
	for i, op := range want {
		if ops[i] != op {
			t.Errorf("ops[%d] = %q, want %q", i, ops[i], op)
		}
	}
	if failed != 0 {
		t.Errorf("failed probes = %d, want 0", failed)
	}
}

func TestInstrumentProvider_PropagatesErrors(t *testing.T) {
	boom := errors.New("upstream 503")
	provider := &fakeProvider{statusErr: boom}

	metrics := &captureMetrics{}
	in := observe.NewInstruments(observe.NewNopTracer(), metrics, observe.NewNopLogger())
	wrapped := InstrumentProvider(provider, in)

	_, err := wrapped.ConnectionStatus(context.Background(), testID)
	if !errors.Is(err, boom) {
		t.Errorf("ConnectionStatus() error = %v, want %v unchanged", err, boom)
	}

	if _, failed := metrics.recorded(); failed != 1 {
		t.Errorf("failed probes = %d, want 1", failed)
	}
}

func TestInstrumentProvider_NilServiceStaysNil(t *testing.T) {
	clock := newTestClock()
	provider := connectedProvider(clock)

	wrapped := InstrumentProvider(provider, observe.NewNopInstruments())

	svc, err := wrapped.RefreshableService(context.Background(), testID)
	if err != nil {
		t.Fatalf("RefreshableService() error = %v", err)
	}
	if svc != nil {
		t.Errorf("RefreshableService() = %T, want nil; a wrapped nil would read as a live handle", svc)
	}
}

// The decorated provider slots into the monitor unchanged.
func TestInstrumentProvider_WithMonitor(t *testing.T) {
	clock := newTestClock()
	provider := connectedProvider(clock)

	metrics := &captureMetrics{}
	in := observe.NewInstruments(observe.NewNopTracer(), metrics, observe.NewNopLogger())
	m := mustMonitor(t, MonitorConfig{
		Provider: InstrumentProvider(provider, in),
		Now:      clock.Now,
	})

	snap, err := m.Health(context.Background(), testID)
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if !snap.Healthy() {
		t.Errorf("Healthy() = false, want true")
	}

	ops, _ := metrics.recorded()
	if len(ops) != 2 || ops[0] != "status" || ops[1] != "test" {
		t.Errorf("recorded ops = %v, want [status test]", ops)
	}
}
