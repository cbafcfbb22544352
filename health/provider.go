package health

import (
	"context"
	"time"
)

// ConnectionStatus is the stored connection record the integration
// provider reports for one identifier. Zero timestamps mean the provider
// did not report them.
type ConnectionStatus struct {
	// Connected reports whether a connection is established.
	Connected bool

	// ConnectedAt is when the connection was established.
	ConnectedAt time.Time

	// ExpiresAt is when the stored credentials expire.
	ExpiresAt time.Time

	// SyncEnabled reports whether background sync is turned on.
	SyncEnabled bool
}

// ConnectionTest is the outcome of one live connectivity probe.
type ConnectionTest struct {
	// Connected reports whether the probe reached the upstream account.
	Connected bool

	// PrimaryCalendarRef identifies the account's primary calendar.
	PrimaryCalendarRef string
}

// Provider is the collaborator contract against the integration provider.
// The monitor never sees tokens or upstream API details, only the
// externally observable connection health.
//
// Contract:
// - Concurrency: safe for use from multiple goroutines.
// - Context: methods must honor cancellation; the monitor runs them under
//   its own deadlines and abandons results that arrive late.
// - Errors: any returned error is treated as an upstream failure; the
//   monitor decides whether it aborts the request or degrades the verdict.
type Provider interface {
	// ConnectionStatus reports the stored connection record for an identifier.
	ConnectionStatus(ctx context.Context, identifier string) (ConnectionStatus, error)

	// TestConnection performs one live connectivity probe.
	TestConnection(ctx context.Context, identifier string) (ConnectionTest, error)

	// RefreshableService returns a handle whose credentials have been
	// refreshed, or (nil, nil) when refresh is not possible for this
	// identifier.
	RefreshableService(ctx context.Context, identifier string) (RefreshableService, error)
}

// RefreshableService is a live handle to one identifier's connection,
// obtained after a credential refresh.
type RefreshableService interface {
	// TestConnection probes the connection with the refreshed credentials.
	TestConnection(ctx context.Context) (ConnectionTest, error)
}
