package poster

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestTargetURL_ID(t *testing.T) {
	pageURL, query, err := TargetURL("tt1375666", "", "")
	if err != nil {
		t.Fatalf("TargetURL: %v", err)
	}
	if query != "tt1375666" {
		t.Errorf("query = %q", query)
	}
	if !strings.Contains(pageURL, "cinematerial.com/search?q=tt1375666") {
		t.Errorf("pageURL = %q", pageURL)
	}
}

func TestTargetURL_BadID(t *testing.T) {
	for _, id := range []string{"1375666", "ttabc", "tt123", "tt123456789", "tt1375666x"} {
		if _, _, err := TargetURL(id, "", ""); !errors.Is(err, ErrBadID) {
			t.Errorf("%q: err = %v, want ErrBadID", id, err)
		}
	}
}

func TestTargetURL_TitleSearch(t *testing.T) {
	pageURL, query, err := TargetURL("", "Blade Runner", "movie")
	if err != nil {
		t.Fatalf("TargetURL: %v", err)
	}
	if query != "Blade Runner movie" {
		t.Errorf("query = %q", query)
	}
	if !strings.Contains(pageURL, "Blade+Runner+movie") {
		t.Errorf("pageURL = %q", pageURL)
	}
}

func TestTargetURL_NothingGiven(t *testing.T) {
	if _, _, err := TargetURL("", "  ", ""); err == nil {
		t.Fatal("want error when neither id nor title supplied")
	}
}

func TestScrape_BadIDIsCallerError(t *testing.T) {
	s := New()
	if _, err := s.Scrape(context.Background(), "nope", "", ""); !errors.Is(err, ErrBadID) {
		t.Fatalf("err = %v, want ErrBadID", err)
	}
}

func TestPosterURLPattern(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://cdn.cinematerial.com/p/297x/abc123.jpg", true},
		{"https://www.cinematerial.com/img/poster.webp", true},
		{"https://cdn.cinematerial.com/p/297x/abc123.jpg?v=2", true},
		{"https://example.com/poster.jpg", false},
		{"https://cdn.cinematerial.com/p/297x/abc123.gif", false},
		{"/static/local.jpg", false},
	}
	for _, tc := range cases {
		if got := posterURLRe.MatchString(tc.url); got != tc.want {
			t.Errorf("%q: match = %v, want %v", tc.url, got, tc.want)
		}
	}
}
