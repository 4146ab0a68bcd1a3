package httpapi

import (
	"errors"
	"net/http"

	"scout-engine/internal/poster"
)

type PosterHandler struct {
	Scraper *poster.Scraper
}

// Scrape handles GET /api/posters?i=tt1375666 (or title= and type=).
// A malformed ID is the caller's fault (400); a dead upstream is nobody's
// fault and comes back as an empty poster list.
func (h PosterHandler) Scrape(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	res, err := h.Scraper.Scrape(r.Context(), q.Get("i"), q.Get("title"), q.Get("type"))
	if err != nil {
		if errors.Is(err, poster.ErrBadID) {
			WriteError(w, r, http.StatusBadRequest, "bad_id", err.Error())
			return
		}
		WriteError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, res)
}
