package httpapi

import "net/http"

func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	jh := JobsHandler{Aggregator: d.Aggregator}
	mux.HandleFunc("/api/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.Aggregate,
	}))

	mh := MovieHandler{Service: d.Movie}
	mux.HandleFunc("/api/movie", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: mh.Lookup,
	}))

	ph := PosterHandler{Scraper: d.Posters}
	mux.HandleFunc("/api/posters", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.Scrape,
	}))

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: Health,
	}))

	return mux
}
