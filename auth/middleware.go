package auth

import (
	"encoding/json"
	"errors"
	"net/http"
)

// RequireIdentity wraps next so that only authenticated requests reach it.
// Credentials are checked with the given authenticator; on success the
// resulting identity is attached to the request context, where handlers can
// read it back with IdentityFromContext or PrincipalFromContext.
//
// Requests without credentials, and requests whose credentials fail
// validation, receive 401 with a JSON error body. Internal authenticator
// errors receive 500.
func RequireIdentity(authn Authenticator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := &AuthRequest{
			Headers:  r.Header,
			Resource: r.URL.Path,
		}

		if !authn.Supports(r.Context(), req) {
			writeUnauthorized(w, "missing credentials")
			return
		}

		result, err := authn.Authenticate(r.Context(), req)
		if err != nil {
			writeAuthError(w, http.StatusInternalServerError, "authentication unavailable")
			return
		}
		if !result.Authenticated {
			if errors.Is(result.Error, ErrTokenExpired) {
				writeUnauthorized(w, "token expired")
			} else {
				writeUnauthorized(w, "invalid credentials")
			}
			return
		}
		if result.Identity == nil || result.Identity.Principal == "" {
			// Token validated but names no principal; nothing to act as.
			writeUnauthorized(w, "invalid credentials")
			return
		}

		ctx := WithIdentity(r.Context(), result.Identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeAuthError(w, http.StatusUnauthorized, msg)
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
