package health

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/localloop/connhealth/auth"
	"github.com/localloop/connhealth/resilience"
	"github.com/localloop/connhealth/validate"
)

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthHandler serves the connection health snapshot for the
// authenticated caller. GET returns the snapshot as JSON; HEAD returns
// identical status and headers with an empty body; other verbs get 405.
// The identifier probed is the authenticated principal, so callers can
// only ever see their own connection.
func HealthHandler(m *Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			writeJSON(w, r, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
			return
		}

		identity := auth.IdentityFromContext(r.Context())
		if identity == nil {
			writeJSON(w, r, http.StatusUnauthorized, errorResponse{Error: "identity required"})
			return
		}

		snap, err := m.Health(r.Context(), identity.Principal)
		if err != nil {
			status, msg := errorStatus(err)
			if status == http.StatusTooManyRequests {
				setRetryAfter(w, m.HealthRetryAfter(identity.Principal))
			}
			writeJSON(w, r, status, errorResponse{Error: msg})
			return
		}

		writeJSON(w, r, http.StatusOK, snap)
	}
}

// RefreshHandler forces a credential refresh for the authenticated
// caller's connection. POST only; other verbs get 405.
func RefreshHandler(m *Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			writeJSON(w, r, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
			return
		}

		identity := auth.IdentityFromContext(r.Context())
		if identity == nil {
			writeJSON(w, r, http.StatusUnauthorized, errorResponse{Error: "identity required"})
			return
		}

		result, err := m.Refresh(r.Context(), identity.Principal)
		if err != nil {
			status, msg := errorStatus(err)
			if status == http.StatusTooManyRequests {
				setRetryAfter(w, m.RefreshRetryAfter(identity.Principal))
			}
			writeJSON(w, r, status, errorResponse{Error: msg})
			return
		}

		writeJSON(w, r, http.StatusOK, result)
	}
}

// errorStatus maps monitor errors onto the caller surface. Validation
// failures and refresh preconditions are the caller's to fix (400),
// admission denials are retryable (429), everything else is an upstream
// failure (500).
func errorStatus(err error) (int, string) {
	var ve *validate.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, fmt.Sprintf("%s %s", ve.Field, ve.Reason)
	case errors.Is(err, resilience.ErrRateLimitExceeded):
		return http.StatusTooManyRequests, "rate limit exceeded"
	case errors.Is(err, ErrNotConnected):
		return http.StatusBadRequest, "connection not established"
	default:
		return http.StatusInternalServerError, "upstream provider failed"
	}
}

func setRetryAfter(w http.ResponseWriter, retry time.Duration) {
	if retry <= 0 {
		return
	}
	secs := int((retry + time.Second - 1) / time.Second)
	w.Header().Set("Retry-After", strconv.Itoa(secs))
}

// writeJSON writes status and body, suppressing the body for HEAD so the
// head-only variant returns identical status and headers only.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

// RegisterHandlers registers the connection health endpoints on the mux.
func RegisterHandlers(mux *http.ServeMux, m *Monitor) {
	mux.HandleFunc("/v1/connections/calendar/health", HealthHandler(m))
	mux.HandleFunc("/v1/connections/calendar/refresh", RefreshHandler(m))
}
