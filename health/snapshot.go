package health

import "time"

// Snapshot is the point-in-time health verdict for one identifier. It is
// what the cache stores and what the health endpoint returns. Once
// assembled a snapshot is never mutated; it ages out of the cache by TTL
// and is rebuilt on the next miss.
type Snapshot struct {
	// Connected mirrors the stored connection record.
	Connected bool `json:"connected"`

	// State is the composite verdict. It renders as the JSON field
	// "healthy": true, false, or null when unverified.
	State State `json:"healthy"`

	// ConnectedAt is when the connection was established, if reported.
	ConnectedAt time.Time `json:"connectedAt,omitzero"`

	// ExpiresAt is when the stored credentials expire, if reported.
	ExpiresAt time.Time `json:"expiresAt,omitzero"`

	// DaysUntilExpiration is the whole days until credential expiry,
	// rounded up. Nil when no expiry is known; negative once past due.
	DaysUntilExpiration *int `json:"daysUntilExpiration"`

	// SyncEnabled mirrors the stored connection record.
	SyncEnabled bool `json:"syncEnabled"`

	// PrimaryCalendarRef identifies the primary calendar, when the live
	// test reported one.
	PrimaryCalendarRef string `json:"primaryCalendarRef,omitempty"`

	// LastChecked is when this snapshot was assembled.
	LastChecked time.Time `json:"lastChecked"`

	// RequiresReconnection is true when a connection exists but could not
	// be verified healthy, meaning the user should re-link the account.
	RequiresReconnection bool `json:"requiresReconnection"`
}

// Healthy reports whether the verdict is verified healthy.
func (s Snapshot) Healthy() bool {
	return s.State == StateHealthy
}

// RefreshResult reports the outcome of a forced credential refresh.
type RefreshResult struct {
	// Success is true when the refresh flow completed.
	Success bool `json:"success"`

	// Connected is the post-refresh test outcome.
	Connected bool `json:"connected"`

	// PrimaryCalendarRef identifies the primary calendar, when reported.
	PrimaryCalendarRef string `json:"primaryCalendarRef,omitempty"`

	// RefreshedAt is when the refresh completed.
	RefreshedAt time.Time `json:"refreshedAt"`
}
