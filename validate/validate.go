package validate

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	authCodePattern   = regexp.MustCompile(`^[A-Za-z0-9\-_./]+$`)
	oauthStatePattern = regexp.MustCompile(`^[A-Za-z0-9\-_.=]+$`)
	emailPattern      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Identifier validates an integration-owner identifier. Identifiers are
// version-4 UUIDs in canonical hyphenated form; the lowercase canonical
// string is returned so it can be used directly as a cache or bucket key.
func Identifier(raw string) (string, error) {
	// uuid.Parse also accepts braced, URN, and bare-hex forms; only the
	// 36-character canonical form is an acceptable identifier here.
	if len(raw) != 36 {
		return "", newError("identifier", "must be a canonical UUID")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", newError("identifier", "must be a canonical UUID")
	}
	if id.Version() != 4 || id.Variant() != uuid.RFC4122 {
		return "", newError("identifier", "must be a version-4 UUID")
	}
	return id.String(), nil
}

// OAuthState validates the state parameter carried through an OAuth
// authorization round trip.
func OAuthState(raw string) (string, error) {
	if len(raw) < 8 || len(raw) > 512 {
		return "", newError("state", "must be between 8 and 512 characters")
	}
	if !oauthStatePattern.MatchString(raw) {
		return "", newError("state", "contains invalid characters")
	}
	return raw, nil
}

// AuthCode validates an OAuth authorization code.
func AuthCode(raw string) (string, error) {
	if len(raw) < 10 || len(raw) > 500 {
		return "", newError("code", "must be between 10 and 500 characters")
	}
	if !authCodePattern.MatchString(raw) {
		return "", newError("code", "contains invalid characters")
	}
	return raw, nil
}

// Email validates an email address.
func Email(raw string) (string, error) {
	if raw == "" {
		return "", newError("email", "is required")
	}
	if !emailPattern.MatchString(raw) {
		return "", newError("email", "is not a valid address")
	}
	return raw, nil
}

// Password checks credential strength for account endpoints. Passwords must
// be 8 to 72 bytes with at least one uppercase letter, one lowercase letter,
// and one digit.
func Password(raw string) (string, error) {
	if len(raw) < 8 {
		return "", newError("password", "must be at least 8 characters")
	}
	if len(raw) > 72 {
		return "", newError("password", "must be at most 72 characters")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, c := range raw {
		switch {
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= '0' && c <= '9':
			hasDigit = true
		}
	}
	if !hasUpper {
		return "", newError("password", "must contain an uppercase letter")
	}
	if !hasLower {
		return "", newError("password", "must contain a lowercase letter")
	}
	if !hasDigit {
		return "", newError("password", "must contain a digit")
	}
	return raw, nil
}

// RedirectPolicy holds the origins a redirect target may point at.
// Origins are compared exactly, so non-default ports must be listed with
// their port.
type RedirectPolicy struct {
	origins map[string]struct{}
}

// NewRedirectPolicy builds a policy from allowed origins such as
// "https://app.example.com". Matching is case-insensitive; trailing slashes
// are ignored.
func NewRedirectPolicy(origins ...string) RedirectPolicy {
	p := RedirectPolicy{origins: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		p.origins[strings.ToLower(o)] = struct{}{}
	}
	return p
}

// Allows reports whether origin is in the policy.
func (p RedirectPolicy) Allows(origin string) bool {
	_, ok := p.origins[strings.ToLower(origin)]
	return ok
}

// RedirectURL validates a post-authorization redirect target. The URL must
// be absolute and its origin must be allowed by the policy. The input is
// returned unmodified on success; a disallowed target is rejected, never
// rewritten.
func RedirectURL(raw string, policy RedirectPolicy) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", newError("redirectUrl", "must be a valid URL")
	}
	if !u.IsAbs() || u.Host == "" {
		return "", newError("redirectUrl", "must be an absolute URL")
	}
	if !policy.Allows(u.Scheme + "://" + u.Host) {
		return "", newError("redirectUrl", "origin is not allowed")
	}
	return raw, nil
}
