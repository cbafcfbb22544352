package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig configures bearer token verification.
type JWTConfig struct {
	// Issuer is the required iss claim. Empty skips the check.
	Issuer string

	// Audience is the required aud claim. Empty skips the check.
	Audience string

	// HeaderName is the request header carrying the token.
	// Default: "Authorization"
	HeaderName string

	// TokenPrefix precedes the token inside the header.
	// Default: "Bearer "
	TokenPrefix string

	// PrincipalClaim names the claim holding the caller principal.
	// Default: "sub"
	PrincipalClaim string

	// TenantClaim names the claim holding the tenant ID, if any.
	TenantClaim string

	// RolesClaim names the claim holding the caller's roles, if any.
	RolesClaim string
}

// KeyProvider resolves token verification keys. Implementations may return
// an HMAC secret ([]byte) or an RSA/ECDSA public key.
type KeyProvider interface {
	// GetKey returns the verification key for the given key ID.
	GetKey(ctx context.Context, keyID string) (any, error)
}

// StaticKeyProvider serves one fixed key regardless of key ID.
type StaticKeyProvider struct {
	key []byte
}

// NewStaticKeyProvider wraps a fixed verification key.
func NewStaticKeyProvider(key []byte) *StaticKeyProvider {
	return &StaticKeyProvider{key: key}
}

// GetKey returns the fixed key.
func (p *StaticKeyProvider) GetKey(_ context.Context, _ string) (any, error) {
	return p.key, nil
}

// JWTAuthenticator verifies bearer JWTs against a KeyProvider.
type JWTAuthenticator struct {
	config JWTConfig
	keys   KeyProvider
}

// NewJWTAuthenticator builds an authenticator for the given config.
func NewJWTAuthenticator(config JWTConfig, keys KeyProvider) *JWTAuthenticator {
	// Apply defaults
	if config.HeaderName == "" {
		config.HeaderName = "Authorization"
	}
	if config.TokenPrefix == "" {
		config.TokenPrefix = "Bearer "
	}
	if config.PrincipalClaim == "" {
		config.PrincipalClaim = "sub"
	}

	return &JWTAuthenticator{
		config: config,
		keys:   keys,
	}
}

// Name returns "jwt".
func (a *JWTAuthenticator) Name() string {
	return "jwt"
}

// Supports reports whether the request carries a token under the configured
// header and prefix.
func (a *JWTAuthenticator) Supports(_ context.Context, req *AuthRequest) bool {
	return strings.HasPrefix(req.GetHeader(a.config.HeaderName), a.config.TokenPrefix)
}

// Authenticate verifies the request token. Verification failures surface
// through the AuthResult rather than the error return.
func (a *JWTAuthenticator) Authenticate(ctx context.Context, req *AuthRequest) (*AuthResult, error) {
	raw, ok := a.bearerToken(req)
	if !ok {
		return AuthFailure(ErrMissingCredentials, "jwt"), nil
	}

	token, err := jwt.Parse(raw, a.keyFor(ctx))
	if err != nil {
		return AuthFailure(classifyParseError(err), "jwt"), nil
	}
	if !token.Valid {
		return AuthFailure(ErrInvalidCredentials, "jwt"), nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return AuthFailure(ErrTokenMalformed, "jwt"), nil
	}
	if !a.claimsAcceptable(claims) {
		return AuthFailure(ErrInvalidCredentials, "jwt"), nil
	}

	return AuthSuccess(a.identityFromClaims(claims)), nil
}

// bearerToken strips the configured prefix from the token header. The
// second return is false when the header is absent or the prefix does
// not match.
func (a *JWTAuthenticator) bearerToken(req *AuthRequest) (string, bool) {
	header := req.GetHeader(a.config.HeaderName)
	if header == "" {
		return "", false
	}
	raw := strings.TrimPrefix(header, a.config.TokenPrefix)
	if raw == header {
		return "", false
	}
	return strings.TrimSpace(raw), true
}

// keyFor builds the lookup callback for jwt.Parse, threading the token's
// kid header through to the KeyProvider.
func (a *JWTAuthenticator) keyFor(ctx context.Context) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		kid, _ := token.Header["kid"].(string)
		return a.keys.GetKey(ctx, kid)
	}
}

// classifyParseError maps jwt library failures onto the package sentinels.
// Expiry and signature problems keep their own identities; everything else
// collapses to a malformed token.
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidCredentials
	default:
		return ErrTokenMalformed
	}
}

// claimsAcceptable checks iss and aud against the config. Each check is
// skipped when the corresponding config field is empty.
func (a *JWTAuthenticator) claimsAcceptable(claims jwt.MapClaims) bool {
	if a.config.Issuer != "" {
		iss, ok := claims["iss"].(string)
		if !ok || iss != a.config.Issuer {
			return false
		}
	}
	if a.config.Audience != "" {
		found := false
		for _, aud := range tokenAudiences(claims) {
			if aud == a.config.Audience {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// tokenAudiences normalizes the aud claim, which RFC 7519 allows to be a
// single string or a list.
func tokenAudiences(claims jwt.MapClaims) []string {
	switch aud := claims["aud"].(type) {
	case string:
		return []string{aud}
	case []any:
		return claimStrings(aud)
	default:
		return nil
	}
}

// claimStrings keeps the string members of a mixed claim list.
func claimStrings(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// identityFromClaims projects token claims onto an Identity. The full claim
// set rides along in Identity.Claims for downstream consumers.
func (a *JWTAuthenticator) identityFromClaims(claims jwt.MapClaims) *Identity {
	identity := &Identity{
		Method: AuthMethodJWT,
		Claims: make(map[string]any, len(claims)),
	}
	for k, v := range claims {
		identity.Claims[k] = v
	}

	if principal, ok := claims[a.config.PrincipalClaim].(string); ok {
		identity.Principal = principal
	}
	if a.config.TenantClaim != "" {
		if tenant, ok := claims[a.config.TenantClaim].(string); ok {
			identity.TenantID = tenant
		}
	}
	if a.config.RolesClaim != "" {
		if roles, ok := claims[a.config.RolesClaim].([]any); ok {
			identity.Roles = claimStrings(roles)
		}
	}

	if exp, ok := claims["exp"].(float64); ok {
		identity.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if iat, ok := claims["iat"].(float64); ok {
		identity.IssuedAt = time.Unix(int64(iat), 0)
	}

	return identity
}

var _ Authenticator = (*JWTAuthenticator)(nil)
var _ KeyProvider = (*StaticKeyProvider)(nil)
