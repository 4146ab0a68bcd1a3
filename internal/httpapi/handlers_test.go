package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scout-engine/internal/aggregate"
	"scout-engine/internal/config"
	"scout-engine/internal/counter"
	"scout-engine/internal/domain"
	"scout-engine/internal/omdb"
	"scout-engine/internal/rank"
	"scout-engine/internal/source/types"
)

type stubFetcher struct {
	records []domain.RawRecord
}

func (s stubFetcher) Name() string { return "stub" }

func (s stubFetcher) Fetch(_ context.Context, _ string) (types.FetchResult, error) {
	return types.FetchResult{Source: "stub", Records: s.records}, nil
}

func testDeps(fetchers ...types.Fetcher) Deps {
	var cfg config.Config
	config.ApplyDefaults(&cfg)
	return Deps{
		Aggregator: &aggregate.Aggregator{
			Fetchers:     fetchers,
			Scorer:       rank.Scorer{Cfg: cfg},
			Limits:       aggregate.Limits{DefaultDays: 7, MaxDays: 30, DefaultLimit: 25, MaxLimit: 100},
			FetchTimeout: 5 * time.Second,
		},
		Movie: &omdb.Service{
			Counters: counter.NewMemory(),
			APIKey:   func() string { return "" },
			Budget:   900,
		},
	}
}

func do(t *testing.T, h http.Handler, method, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestJobsEndpoint(t *testing.T) {
	now := time.Now().UTC()
	mux := NewMux(testDeps(stubFetcher{records: []domain.RawRecord{
		{Title: "Data Analyst", URL: "https://jobs/1", Source: "stub", Date: now.Add(-time.Hour)},
		{Title: "BI Analyst", URL: "https://jobs/2", Source: "stub", Date: now.Add(-2 * time.Hour)},
	}}))

	rec := do(t, mux, http.MethodGet, "/api/jobs?q=data+analyst&days=7&limit=10", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp aggregate.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("count = %d, want 2", resp.Count)
	}
	if resp.SourceCounts["stub"] != 2 {
		t.Errorf("sourceCounts = %v", resp.SourceCounts)
	}
	if resp.Days != 7 || resp.Limit != 10 {
		t.Errorf("echoed params days=%d limit=%d", resp.Days, resp.Limit)
	}
}

func TestJobsEndpoint_MethodNotAllowed(t *testing.T) {
	mux := NewMux(testDeps())

	rec := do(t, mux, http.MethodPost, "/api/jobs", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestMovieEndpoint_NoServerKey(t *testing.T) {
	mux := NewMux(testDeps())

	rec := do(t, mux, http.MethodGet, "/api/movie?t=Dune", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var e APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Error.Code != "not_configured" {
		t.Errorf("code = %q", e.Error.Code)
	}
}

func TestMovieEndpoint_CallerKeyGate(t *testing.T) {
	deps := testDeps()
	deps.Movie.CallerKey = "secret"
	mux := NewMux(deps)

	rec := do(t, mux, http.MethodGet, "/api/movie?t=Dune", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing key: status = %d, want 401", rec.Code)
	}

	rec = do(t, mux, http.MethodGet, "/api/movie?t=Dune", map[string]string{"X-Api-Key": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key: status = %d, want 401", rec.Code)
	}

	// Right key gets past the gate; no server key configured is the next stop.
	rec = do(t, mux, http.MethodGet, "/api/movie?t=Dune", map[string]string{"X-Api-Key": "secret"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("right key: status = %d, want 503", rec.Code)
	}
}

func TestMovieEndpoint_Usage(t *testing.T) {
	mux := NewMux(testDeps())

	rec := do(t, mux, http.MethodGet, "/api/movie?usage=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var stats omdb.UsageStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Budget != 900 || stats.Today != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ResetsAt == "" {
		t.Error("resetsAt missing")
	}
}

func TestHealthEndpoint(t *testing.T) {
	mux := NewMux(testDeps())

	rec := do(t, mux, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["ok"] != true {
		t.Errorf("body = %v", body)
	}
}

func TestCorsPreflight(t *testing.T) {
	h := Chain(NewMux(testDeps()), Cors, RequestID)

	rec := do(t, h, http.MethodOptions, "/api/jobs", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("OPTIONS status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q", got)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("preflight body = %q, want empty", rec.Body.String())
	}
}

func TestRequestIDPropagates(t *testing.T) {
	h := Chain(NewMux(testDeps()), RequestID)

	rec := do(t, h, http.MethodGet, "/health", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("generated request id missing from response")
	}

	rec = do(t, h, http.MethodGet, "/health", map[string]string{"X-Request-ID": "abc123"})
	if got := rec.Header().Get("X-Request-ID"); got != "abc123" {
		t.Errorf("request id = %q, want caller's echoed back", got)
	}
}

func TestCallerID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	if got := callerID(req); got != "10.1.2.3" {
		t.Errorf("callerID = %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := callerID(req); got != "203.0.113.7" {
		t.Errorf("forwarded callerID = %q", got)
	}
}
