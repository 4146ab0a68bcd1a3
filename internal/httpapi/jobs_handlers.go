package httpapi

import (
	"net/http"
	"strings"

	"scout-engine/internal/aggregate"
)

type JobsHandler struct {
	Aggregator *aggregate.Aggregator
}

// Aggregate handles GET /api/jobs?q=...&days=...&limit=...&force=1.
// Upstream source failures never surface here; a source that died is just
// absent from the response.
func (h JobsHandler) Aggregate(w http.ResponseWriter, r *http.Request) {
	req := aggregate.Request{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
		Days:  queryInt(r, "days", 0),
		Limit: queryInt(r, "limit", 0),
		Force: queryFlag(r, "force"),
	}

	resp, err := h.Aggregator.Run(r.Context(), req)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "aggregation failed")
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}
