package auth

import "context"

// Authenticator checks request credentials and produces an identity.
//
// Contract:
// - Concurrency: safe for use from multiple goroutines.
// - Context: methods should honor cancellation and deadlines.
// - Errors: Authenticate reserves its error return for internal faults;
//   rejected credentials come back as an unauthenticated AuthResult.
type Authenticator interface {
	// Name identifies the authenticator, for logging and result attribution.
	Name() string

	// Supports reports whether the request carries credentials this
	// authenticator understands.
	Supports(ctx context.Context, req *AuthRequest) bool

	// Authenticate checks the request credentials. A rejected credential is
	// (result, nil) with result.Authenticated false; (nil, error) means the
	// check itself could not run.
	Authenticate(ctx context.Context, req *AuthRequest) (*AuthResult, error)
}

// AuthRequest carries the credential material extracted from a request.
type AuthRequest struct {
	// Headers holds the HTTP request headers.
	Headers map[string][]string

	// Resource is the request path, for audit context.
	Resource string
}

// GetHeader returns the first value recorded for key, or "".
func (r *AuthRequest) GetHeader(key string) string {
	if values := r.Headers[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// AuthResult reports the outcome of one authentication attempt.
type AuthResult struct {
	// Authenticated is true when the credentials were accepted.
	Authenticated bool

	// Identity describes the caller. Set only on success.
	Identity *Identity

	// Error explains the rejection. Set only on failure.
	Error error

	// Method names the authenticator that produced this result.
	Method string
}

// AuthSuccess builds an accepted result carrying the identity. The result
// method is taken from the identity.
func AuthSuccess(identity *Identity) *AuthResult {
	return &AuthResult{
		Authenticated: true,
		Identity:      identity,
		Method:        string(identity.Method),
	}
}

// AuthFailure builds a rejected result carrying the reason.
func AuthFailure(err error, method string) *AuthResult {
	return &AuthResult{
		Error:  err,
		Method: method,
	}
}

// AuthenticatorFunc adapts plain functions into an Authenticator, mostly
// for tests and small fixed policies.
type AuthenticatorFunc struct {
	name     string
	supports func(ctx context.Context, req *AuthRequest) bool
	auth     func(ctx context.Context, req *AuthRequest) (*AuthResult, error)
}

// NewAuthenticatorFunc wraps the given functions as an Authenticator.
func NewAuthenticatorFunc(
	name string,
	supports func(ctx context.Context, req *AuthRequest) bool,
	auth func(ctx context.Context, req *AuthRequest) (*AuthResult, error),
) *AuthenticatorFunc {
	return &AuthenticatorFunc{name: name, supports: supports, auth: auth}
}

// Name returns the wrapped name.
func (f *AuthenticatorFunc) Name() string { return f.name }

// Supports defers to the wrapped function.
func (f *AuthenticatorFunc) Supports(ctx context.Context, req *AuthRequest) bool {
	return f.supports(ctx, req)
}

// Authenticate defers to the wrapped function.
func (f *AuthenticatorFunc) Authenticate(ctx context.Context, req *AuthRequest) (*AuthResult, error) {
	return f.auth(ctx, req)
}

var _ Authenticator = (*AuthenticatorFunc)(nil)
