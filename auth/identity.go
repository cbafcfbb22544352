package auth

import (
	"slices"
	"time"
)

// AuthMethod names the mechanism that produced an identity.
type AuthMethod string

const (
	AuthMethodNone AuthMethod = "none"
	AuthMethodJWT  AuthMethod = "jwt"
)

// Identity is an authenticated caller. For connection health requests the
// Principal is the integration owner's user ID.
type Identity struct {
	// Principal uniquely identifies the caller.
	Principal string

	// TenantID scopes the caller to a tenant, when tokens carry one.
	TenantID string

	// Roles lists the roles granted to the caller.
	Roles []string

	// Method records how the caller authenticated.
	Method AuthMethod

	// Claims are the raw token claims, untouched.
	Claims map[string]any

	// ExpiresAt is when the backing credential lapses.
	ExpiresAt time.Time

	// IssuedAt is when the backing credential was minted.
	IssuedAt time.Time
}

// HasRole reports whether the identity carries the given role.
func (id *Identity) HasRole(role string) bool {
	return slices.Contains(id.Roles, role)
}

// IsExpired reports whether the backing credential has lapsed. Identities
// without an expiry never expire.
func (id *Identity) IsExpired() bool {
	return !id.ExpiresAt.IsZero() && time.Now().After(id.ExpiresAt)
}
