package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"scout-engine/internal/omdb"
)

type MovieHandler struct {
	Service *omdb.Service
}

// Lookup handles GET /api/movie. Status mapping follows the proxy policy:
// 503 when no server key is configured, 401 on a caller-key mismatch, 429
// for rate/budget exhaustion (with Retry-After where it applies), 400 for
// missing parameters. usage=1/stats=1 answer from counters only.
func (h MovieHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if err := h.Service.CheckCallerKey(r.Header.Get("X-Api-Key")); err != nil {
		WriteError(w, r, http.StatusUnauthorized, "unauthorized", "invalid api key")
		return
	}

	if q.Get("usage") == "1" || q.Get("stats") == "1" {
		stats, err := h.Service.Usage(r.Context())
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "internal_error", "counter store unavailable")
			return
		}
		WriteJSON(w, http.StatusOK, stats)
		return
	}

	params := omdb.Params{
		Title:  q.Get("t"),
		Search: q.Get("s"),
		ID:     q.Get("i"),
	}

	payload, err := h.Service.Lookup(r.Context(), callerID(r), params)
	if err != nil {
		var rl *omdb.RateLimitedError
		switch {
		case errors.Is(err, omdb.ErrNoServerKey):
			WriteError(w, r, http.StatusServiceUnavailable, "not_configured", "omdb api key not configured")
		case errors.As(err, &rl):
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.RetryAfter.Seconds())+1))
			WriteError(w, r, http.StatusTooManyRequests, "rate_limited", "too many requests")
		case errors.Is(err, omdb.ErrBudgetExceeded):
			WriteError(w, r, http.StatusTooManyRequests, "budget_exceeded", "daily request budget exceeded")
		case errors.Is(err, omdb.ErrMissingParams):
			WriteError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		default:
			WriteError(w, r, http.StatusBadGateway, "upstream_error", "upstream request failed")
		}
		return
	}
	WriteJSON(w, http.StatusOK, payload)
}
