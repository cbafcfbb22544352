// Package health computes and serves connection health verdicts for
// linked third-party calendar accounts.
//
// The Monitor is the orchestrator: it validates the caller's identifier,
// checks per-identifier admission, serves cached snapshots within their
// TTL, and otherwise probes the integration provider under bounded
// timeouts to assemble a fresh verdict. A failed stored-status fetch
// aborts the request; a failed live test degrades the verdict to
// StateUnknown instead of failing.
//
// # Basic Usage
//
//	monitor, err := health.NewMonitor(health.MonitorConfig{
//	    Provider: calendarProvider,
//	})
//	if err != nil {
//	    return err
//	}
//
//	snap, err := monitor.Health(ctx, userID)
//	if err != nil {
//	    return err
//	}
//	if snap.RequiresReconnection {
//	    // prompt the user to re-link the account
//	}
//
// # HTTP Endpoints
//
// HealthHandler and RefreshHandler serve the snapshot and the forced
// refresh over HTTP, reading the caller's identifier from the
// authenticated identity:
//
//	mux := http.NewServeMux()
//	health.RegisterHandlers(mux, monitor)
//	handler := auth.RequireIdentity(authenticator, mux)
//
// # Background Sweeping
//
// The in-memory snapshot store and the rate limiters reclaim stale state
// lazily; a Janitor bounds their memory by sweeping on an interval:
//
//	janitor := health.NewJanitor(health.JanitorConfig{
//	    Sweepers: []health.Sweeper{store, statusLimiter, refreshLimiter},
//	})
//	go janitor.Run(ctx)
package health
