package rss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"scout-engine/internal/domain"
)

func TestSplitFeedTitle(t *testing.T) {
	cases := []struct {
		in, title, company string
	}{
		{"Acme Corp: Data Analyst", "Data Analyst", "Acme Corp"},
		{"Data Analyst", "Data Analyst", ""},
		{": leading separator", ": leading separator", ""},
	}
	for _, tc := range cases {
		title, company := splitFeedTitle(tc.in)
		if title != tc.title || company != tc.company {
			t.Errorf("splitFeedTitle(%q) = %q/%q, want %q/%q",
				tc.in, title, company, tc.title, tc.company)
		}
	}
}

func TestFilterByQuery(t *testing.T) {
	records := []domain.RawRecord{
		{Title: "Data Analyst"},
		{Title: "Backend Engineer", Description: "SQL and analytics reporting"},
		{Title: "Chef"},
	}
	got := filterByQuery(records, "data analytics")
	if len(got) != 2 {
		t.Fatalf("want 2 matches (any word), got %d", len(got))
	}
}

func TestFetch_DeadFeedIsolated(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<rss><channel>
			<item><title>Acme: Data Analyst</title><link>https://jobs/1</link></item>
		</channel></rss>`))
	}))
	t.Cleanup(good.Close)
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(dead.Close)

	f := New(Config{Feeds: []FeedConfig{
		{Name: "dead", URL: dead.URL},
		{Name: "good", URL: good.URL},
	}})

	res, err := f.Fetch(context.Background(), "")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("records = %d, want the good feed's item only", len(res.Records))
	}
	r := res.Records[0]
	if r.Title != "Data Analyst" || r.Company != "Acme" || r.URL != "https://jobs/1" {
		t.Errorf("record = %+v", r)
	}
	if r.Source != "good" {
		t.Errorf("source = %q", r.Source)
	}
}
