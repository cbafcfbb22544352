package health

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/localloop/connhealth/cache"
	"github.com/localloop/connhealth/observe"
	"github.com/localloop/connhealth/resilience"
	"github.com/localloop/connhealth/validate"
)

const (
	// DefaultStatusTimeout bounds the stored-status fetch.
	DefaultStatusTimeout = 10 * time.Second

	// DefaultProbeTimeout bounds the live connection test.
	DefaultProbeTimeout = 8 * time.Second
)

// MonitorConfig configures the connection health monitor.
type MonitorConfig struct {
	// Provider is the integration collaborator. Required.
	Provider Provider

	// Store caches computed snapshots.
	// Default: in-memory store with a 5 minute TTL.
	Store cache.Store[Snapshot]

	// StatusLimiter admits health probes per identifier.
	// Default: resilience.StrictLimits().
	StatusLimiter *resilience.KeyedLimiter

	// RefreshLimiter admits refresh attempts per identifier.
	// Default: resilience.OAuthLimits().
	RefreshLimiter *resilience.KeyedLimiter

	// StatusTimeout bounds the stored-status fetch.
	// Default: 10 seconds.
	StatusTimeout time.Duration

	// ProbeTimeout bounds the live connection test.
	// Default: 8 seconds.
	ProbeTimeout time.Duration

	// Logger receives structured probe logs. Default: no-op.
	Logger observe.Logger

	// Metrics receives cache, admission, and probe counters. Default: no-op.
	Metrics observe.Metrics

	// Now overrides the clock. Intended for tests.
	Now func() time.Time
}

// Monitor computes, caches, and serves connection health verdicts for
// linked third-party accounts. All methods are safe for concurrent use;
// per-identifier state lives in the store and the limiters, so requests
// for different identifiers never block each other. Two concurrent misses
// for the same identifier may both probe upstream and both write the
// cache; the overwrite is accepted since both snapshots are equivalent up
// to clock skew.
type Monitor struct {
	provider       Provider
	store          cache.Store[Snapshot]
	statusLimiter  *resilience.KeyedLimiter
	refreshLimiter *resilience.KeyedLimiter
	statusTimeout  time.Duration
	probeTimeout   time.Duration
	logger         observe.Logger
	metrics        observe.Metrics
	now            func() time.Time
}

// NewMonitor creates a monitor. Every field except Provider has a default.
func NewMonitor(config MonitorConfig) (*Monitor, error) {
	if config.Provider == nil {
		return nil, ErrNilProvider
	}

	// Apply defaults
	if config.Store == nil {
		config.Store = cache.NewMemoryStore[Snapshot](cache.StoreConfig{})
	}
	if config.StatusLimiter == nil {
		config.StatusLimiter = resilience.NewKeyedLimiter(resilience.StrictLimits())
	}
	if config.RefreshLimiter == nil {
		config.RefreshLimiter = resilience.NewKeyedLimiter(resilience.OAuthLimits())
	}
	if config.StatusTimeout <= 0 {
		config.StatusTimeout = DefaultStatusTimeout
	}
	if config.ProbeTimeout <= 0 {
		config.ProbeTimeout = DefaultProbeTimeout
	}
	if config.Logger == nil {
		config.Logger = observe.NewNopLogger()
	}
	if config.Metrics == nil {
		config.Metrics = observe.NewNopMetrics()
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &Monitor{
		provider:       config.Provider,
		store:          config.Store,
		statusLimiter:  config.StatusLimiter,
		refreshLimiter: config.RefreshLimiter,
		statusTimeout:  config.StatusTimeout,
		probeTimeout:   config.ProbeTimeout,
		logger:         config.Logger,
		metrics:        config.Metrics,
		now:            config.Now,
	}, nil
}

// Health returns the health snapshot for an identifier, served from cache
// within the TTL and recomputed from the provider otherwise.
//
// Validation and rate-limit failures short-circuit before any provider
// call or cache write. A failed stored-status fetch aborts the request
// with ErrUpstream and caches nothing. A failed live test is absorbed:
// the verdict degrades to StateUnknown and the request still succeeds.
func (m *Monitor) Health(ctx context.Context, identifier string) (Snapshot, error) {
	meta := probeMeta("health")
	logger := m.logger.WithProbe(meta)

	id, err := validate.Identifier(identifier)
	if err != nil {
		return Snapshot{}, err
	}

	if !m.statusLimiter.Allow(id) {
		m.metrics.RecordRateLimitDenied(ctx, meta)
		logger.Warn(ctx, "health probe rate limited",
			observe.Field{Key: "identifier", Value: id})
		return Snapshot{}, resilience.ErrRateLimitExceeded
	}

	if snap, ok := m.store.Get(ctx, id); ok {
		m.metrics.RecordCacheHit(ctx)
		logger.Debug(ctx, "snapshot served from cache",
			observe.Field{Key: "identifier", Value: id})
		return snap, nil
	}
	m.metrics.RecordCacheMiss(ctx)

	start := m.now()
	snap, err := m.computeSnapshot(ctx, id, logger)
	m.metrics.RecordProbe(ctx, meta, m.now().Sub(start), err)
	if err != nil {
		return Snapshot{}, err
	}

	if putErr := m.store.Put(ctx, id, snap); putErr != nil {
		// The verdict is still valid; the next request recomputes it.
		logger.Warn(ctx, "snapshot cache write failed",
			observe.Field{Key: "identifier", Value: id},
			observe.Field{Key: "error", Value: putErr.Error()})
	}

	return snap, nil
}

func (m *Monitor) computeSnapshot(ctx context.Context, id string, logger observe.Logger) (Snapshot, error) {
	status, err := resilience.Within(ctx, m.statusTimeout, func(ctx context.Context) (ConnectionStatus, error) {
		return m.provider.ConnectionStatus(ctx, id)
	})
	if err != nil {
		logger.Error(ctx, "connection status fetch failed",
			observe.Field{Key: "identifier", Value: id},
			observe.Field{Key: "error", Value: err.Error()})
		return Snapshot{}, fmt.Errorf("%w: connection status: %w", ErrUpstream, err)
	}

	now := m.now()
	snap := Snapshot{
		Connected:   status.Connected,
		State:       StateUnhealthy,
		ConnectedAt: status.ConnectedAt,
		ExpiresAt:   status.ExpiresAt,
		SyncEnabled: status.SyncEnabled,
		LastChecked: now,
	}

	if status.Connected {
		test, err := resilience.Within(ctx, m.probeTimeout, func(ctx context.Context) (ConnectionTest, error) {
			return m.provider.TestConnection(ctx, id)
		})
		if err != nil {
			// Absorbed: the stored record still says connected, the live
			// test just could not confirm it this cycle.
			snap.State = StateUnknown
			logger.Warn(ctx, "connection test failed, verdict degraded",
				observe.Field{Key: "identifier", Value: id},
				observe.Field{Key: "error", Value: err.Error()})
		} else {
			snap.PrimaryCalendarRef = test.PrimaryCalendarRef
			if test.Connected {
				snap.State = StateHealthy
			}
		}
	}

	snap.RequiresReconnection = status.Connected && !snap.Healthy()
	snap.DaysUntilExpiration = daysUntil(now, status.ExpiresAt)

	return snap, nil
}

// Refresh forces a credential refresh for an identifier and reports the
// post-refresh state. It bypasses the snapshot cache in both directions;
// callers wanting an updated cached verdict should call Health afterward
// and accept the normal cache window.
func (m *Monitor) Refresh(ctx context.Context, identifier string) (RefreshResult, error) {
	meta := probeMeta("refresh")
	logger := m.logger.WithProbe(meta)

	id, err := validate.Identifier(identifier)
	if err != nil {
		return RefreshResult{}, err
	}

	if !m.refreshLimiter.Allow(id) {
		m.metrics.RecordRateLimitDenied(ctx, meta)
		logger.Warn(ctx, "refresh rate limited",
			observe.Field{Key: "identifier", Value: id})
		return RefreshResult{}, resilience.ErrRateLimitExceeded
	}

	start := m.now()
	result, err := m.refresh(ctx, id, logger)
	m.metrics.RecordProbe(ctx, meta, m.now().Sub(start), err)
	return result, err
}

func (m *Monitor) refresh(ctx context.Context, id string, logger observe.Logger) (RefreshResult, error) {
	status, err := resilience.Within(ctx, m.statusTimeout, func(ctx context.Context) (ConnectionStatus, error) {
		return m.provider.ConnectionStatus(ctx, id)
	})
	if err != nil {
		logger.Error(ctx, "connection status fetch failed",
			observe.Field{Key: "identifier", Value: id},
			observe.Field{Key: "error", Value: err.Error()})
		return RefreshResult{}, fmt.Errorf("%w: connection status: %w", ErrUpstream, err)
	}
	if !status.Connected {
		return RefreshResult{}, ErrNotConnected
	}

	svc, err := m.provider.RefreshableService(ctx, id)
	if err != nil {
		logger.Error(ctx, "refreshable service unavailable",
			observe.Field{Key: "identifier", Value: id},
			observe.Field{Key: "error", Value: err.Error()})
		return RefreshResult{}, fmt.Errorf("%w: refreshable service: %w", ErrUpstream, err)
	}
	if svc == nil {
		// The provider holds no refreshable credentials for this
		// identifier; from the caller's view the account is not connected.
		return RefreshResult{}, ErrNotConnected
	}

	test, err := svc.TestConnection(ctx)
	if err != nil {
		logger.Error(ctx, "post-refresh connection test failed",
			observe.Field{Key: "identifier", Value: id},
			observe.Field{Key: "error", Value: err.Error()})
		return RefreshResult{}, fmt.Errorf("%w: post-refresh test: %w", ErrUpstream, err)
	}

	logger.Info(ctx, "connection refreshed",
		observe.Field{Key: "identifier", Value: id},
		observe.Field{Key: "connected", Value: test.Connected})

	return RefreshResult{
		Success:            true,
		Connected:          test.Connected,
		PrimaryCalendarRef: test.PrimaryCalendarRef,
		RefreshedAt:        m.now(),
	}, nil
}

// HealthRetryAfter reports how long until the identifier's health probe
// window resets. Zero means the next probe is admitted immediately.
func (m *Monitor) HealthRetryAfter(identifier string) time.Duration {
	return m.statusLimiter.RetryAfter(normalizeKey(identifier))
}

// RefreshRetryAfter reports how long until the identifier's refresh
// window resets.
func (m *Monitor) RefreshRetryAfter(identifier string) time.Duration {
	return m.refreshLimiter.RetryAfter(normalizeKey(identifier))
}

// normalizeKey maps an identifier onto the limiter key space. Buckets are
// keyed by the canonical form, so the lookup must use it too.
func normalizeKey(identifier string) string {
	if id, err := validate.Identifier(identifier); err == nil {
		return id
	}
	return identifier
}

func probeMeta(op string) observe.ProbeMeta {
	return observe.ProbeMeta{Op: op, Provider: "calendar"}
}

// daysUntil returns the whole days until expiry, rounded up, or nil when
// no expiry is known.
func daysUntil(now, expiresAt time.Time) *int {
	if expiresAt.IsZero() {
		return nil
	}
	days := int(math.Ceil(expiresAt.Sub(now).Hours() / 24))
	return &days
}
