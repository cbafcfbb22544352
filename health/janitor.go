package health

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/localloop/connhealth/cache"
	"github.com/localloop/connhealth/observe"
	"github.com/localloop/connhealth/resilience"
)

// Sweeper reclaims expired per-key state and reports how many entries it
// dropped. The in-memory snapshot store and the keyed limiters satisfy it.
type Sweeper interface {
	Sweep() int
}

var (
	_ Sweeper = (*cache.MemoryStore[Snapshot])(nil)
	_ Sweeper = (*resilience.KeyedLimiter)(nil)
)

// JanitorConfig configures the background sweeper.
type JanitorConfig struct {
	// Interval is how often each sweeper runs.
	// Default: 1 minute.
	Interval time.Duration

	// Sweepers are the stores and limiters to reclaim.
	Sweepers []Sweeper

	// Logger receives sweep reports. Default: no-op.
	Logger observe.Logger
}

// Janitor periodically reclaims expired snapshot entries and idle rate
// buckets. Logical expiry never depends on it: stores and limiters ignore
// stale state on read regardless; sweeping only bounds memory.
type Janitor struct {
	interval time.Duration
	sweepers []Sweeper
	logger   observe.Logger
}

// NewJanitor creates a janitor.
func NewJanitor(config JanitorConfig) *Janitor {
	// Apply defaults
	if config.Interval <= 0 {
		config.Interval = time.Minute
	}
	if config.Logger == nil {
		config.Logger = observe.NewNopLogger()
	}

	return &Janitor{
		interval: config.Interval,
		sweepers: config.Sweepers,
		logger:   config.Logger,
	}
}

// Run sweeps on the configured interval until ctx is cancelled, then
// returns the cancellation cause. Callers typically run it in a group
// alongside the HTTP server.
func (j *Janitor) Run(ctx context.Context) error {
	if len(j.sweepers) == 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	g, ctx := errgroup.WithContext(ctx)

	for _, sweeper := range j.sweepers {
		g.Go(func() error {
			ticker := time.NewTicker(j.interval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C:
					if n := sweeper.Sweep(); n > 0 {
						j.logger.Debug(ctx, "swept expired entries",
							observe.Field{Key: "reclaimed", Value: n})
					}
				}
			}
		})
	}

	return g.Wait()
}
