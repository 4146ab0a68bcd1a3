package omdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"scout-engine/internal/counter"
	"scout-engine/internal/source/util"
)

// Pinned well ahead of the wall clock so counter windows keyed off it
// cannot expire while a test is running.
var testNow = time.Date(2030, 1, 2, 12, 0, 0, 0, time.UTC)

func testClient(upstream *httptest.Server) *Client {
	return &Client{
		hc:      util.NewClient(5 * time.Second),
		baseURL: upstream.URL + "/",
	}
}

func fakeOMDb(t *testing.T, body string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("apikey") == "" {
			t.Error("upstream call without apikey")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestService(cl *Client) *Service {
	return &Service{
		Client:   cl,
		Counters: counter.NewMemory(),
		APIKey:   func() string { return "serverkey" },
		Budget:   900,
		Now:      func() time.Time { return testNow },
	}
}

func TestLookup_NoServerKey(t *testing.T) {
	s := newTestService(nil)
	s.APIKey = func() string { return "" }

	_, err := s.Lookup(context.Background(), "1.2.3.4", Params{Title: "Dune"})
	if !errors.Is(err, ErrNoServerKey) {
		t.Fatalf("err = %v, want ErrNoServerKey", err)
	}
}

func TestLookup_MissingParams(t *testing.T) {
	s := newTestService(nil)

	_, err := s.Lookup(context.Background(), "1.2.3.4", Params{})
	if !errors.Is(err, ErrMissingParams) {
		t.Fatalf("err = %v, want ErrMissingParams", err)
	}
}

func TestLookup_PassThroughAndCount(t *testing.T) {
	srv, calls := fakeOMDb(t, `{"Title":"Dune","Year":"2021","Response":"True"}`)
	s := newTestService(testClient(srv))

	got, err := s.Lookup(context.Background(), "1.2.3.4", Params{Title: "Dune"})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got["Title"] != "Dune" {
		t.Errorf("payload not passed through: %v", got)
	}
	if *calls != 1 {
		t.Errorf("upstream calls = %d, want 1", *calls)
	}

	stats, err := s.Usage(context.Background())
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	if stats.Today != 1 || stats.Total != 1 {
		t.Errorf("counters = today %d total %d, want 1/1", stats.Today, stats.Total)
	}
	if stats.Budget != 900 {
		t.Errorf("budget = %d", stats.Budget)
	}
}

func TestLookup_NotFoundReshaped(t *testing.T) {
	srv, _ := fakeOMDb(t, `{"Response":"False","Error":"Movie not found!"}`)
	s := newTestService(testClient(srv))

	got, err := s.Lookup(context.Background(), "1.2.3.4", Params{Title: "zzzz"})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(got) != 1 || got["error"] != "Not found" {
		t.Errorf("payload = %v, want {error: Not found}", got)
	}
}

func TestLookup_BudgetBlocksBeforeUpstream(t *testing.T) {
	srv, calls := fakeOMDb(t, `{"Response":"True"}`)
	s := newTestService(testClient(srv))
	s.Budget = 2

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := s.Lookup(ctx, "1.2.3.4", Params{ID: "tt1375666"}); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}

	_, err := s.Lookup(ctx, "1.2.3.4", Params{ID: "tt1375666"})
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("err = %v, want ErrBudgetExceeded", err)
	}
	if *calls != 2 {
		t.Errorf("upstream calls = %d; budget rejection must not reach upstream", *calls)
	}
}

func TestLookup_RateWindow(t *testing.T) {
	srv, _ := fakeOMDb(t, `{"Response":"True"}`)
	s := newTestService(testClient(srv))
	s.RatePerMinute = 2

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := s.Lookup(ctx, "1.2.3.4", Params{Title: "Dune"}); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}

	_, err := s.Lookup(ctx, "1.2.3.4", Params{Title: "Dune"})
	var rl *RateLimitedError
	if !errors.As(err, &rl) {
		t.Fatalf("err = %v, want RateLimitedError", err)
	}
	if rl.RetryAfter <= 0 || rl.RetryAfter > time.Minute {
		t.Errorf("RetryAfter = %v", rl.RetryAfter)
	}

	// Another caller has its own window.
	if _, err := s.Lookup(ctx, "5.6.7.8", Params{Title: "Dune"}); err != nil {
		t.Errorf("distinct caller limited: %v", err)
	}

	// Next minute admits the first caller again.
	s.Now = func() time.Time { return testNow.Add(time.Minute) }
	if _, err := s.Lookup(ctx, "1.2.3.4", Params{Title: "Dune"}); err != nil {
		t.Errorf("new window still limited: %v", err)
	}
}

func TestLookup_UpstreamFailureNotCounted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	s := newTestService(testClient(srv))

	if _, err := s.Lookup(context.Background(), "1.2.3.4", Params{Title: "Dune"}); err == nil {
		t.Fatal("want error on upstream 500")
	}
	stats, _ := s.Usage(context.Background())
	if stats.Today != 0 {
		t.Errorf("failed upstream call counted: today = %d", stats.Today)
	}
}

func TestUsageReadsOnly(t *testing.T) {
	srv, calls := fakeOMDb(t, `{"Response":"True"}`)
	s := newTestService(testClient(srv))

	for i := 0; i < 3; i++ {
		if _, err := s.Usage(context.Background()); err != nil {
			t.Fatalf("Usage: %v", err)
		}
	}
	stats, _ := s.Usage(context.Background())
	if stats.Today != 0 || stats.Total != 0 {
		t.Errorf("Usage must not increment: %+v", stats)
	}
	if *calls != 0 {
		t.Errorf("Usage reached upstream %d times", *calls)
	}
}

func TestCheckCallerKey(t *testing.T) {
	s := &Service{}
	if err := s.CheckCallerKey("anything"); err != nil {
		t.Errorf("disabled gate rejected: %v", err)
	}

	s.CallerKey = "secret"
	if err := s.CheckCallerKey("secret"); err != nil {
		t.Errorf("matching key rejected: %v", err)
	}
	if err := s.CheckCallerKey("wrong"); !errors.Is(err, ErrBadCallerKey) {
		t.Errorf("err = %v, want ErrBadCallerKey", err)
	}
	if err := s.CheckCallerKey(""); !errors.Is(err, ErrBadCallerKey) {
		t.Errorf("missing key: err = %v, want ErrBadCallerKey", err)
	}
}

func TestClientQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("t"); got != "Dune" {
			t.Errorf("t = %q", got)
		}
		if got := r.URL.Query().Get("apikey"); got != "k123" {
			t.Errorf("apikey = %q", got)
		}
		w.Write([]byte(`{"Title":"Dune"}`))
	}))
	t.Cleanup(srv.Close)

	c := testClient(srv)
	q := url.Values{}
	q.Set("t", "Dune")
	got, err := c.Query(context.Background(), "k123", q)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got["Title"] != "Dune" {
		t.Errorf("payload = %v", got)
	}
}
