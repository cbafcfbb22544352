// Package validate provides input validation for connection health
// endpoints.
//
// The validators are pure functions: each takes an untrusted string and
// either returns the accepted (possibly canonicalized) value or a
// *ValidationError naming the failing field. Nothing in this package
// mutates input to make it pass; a value that does not conform is
// rejected.
//
// # Validators
//
//   - Identifier: version-4 UUID naming an integration owner.
//   - OAuthState: the state parameter of an OAuth authorization round trip.
//   - AuthCode: an OAuth authorization code.
//   - Email, Password: account credential shapes.
//   - RedirectURL: absolute URL whose origin must be on a RedirectPolicy
//     allow-list, preventing open redirects.
//
// # Sanitization
//
// Sanitize strips markup-significant characters for display-only values.
// It deliberately has no knowledge of the validators above and must not be
// used in their place:
//
//	name := validate.Sanitize(profile.DisplayName, 120)
package validate
