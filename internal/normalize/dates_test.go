package normalize

import (
	"testing"
	"time"
)

func TestParseWhen(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-08-28T09:30:00Z", time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)},
		{"2026-08-28T09:30:00", time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)},
		{"2026-08-28 09:30:00", time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)},
		{"Fri, 28 Aug 2026 09:30:00 +0000", time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)},
		{"2026-08-28", time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)},
		{"3 days ago", now.AddDate(0, 0, -3)},
		{"30+ days ago", now.AddDate(0, 0, -30)},
		{"2 hours ago", now.Add(-2 * time.Hour)},
		{"1 week ago", now.AddDate(0, 0, -7)},
		{"just now", now},
		{"Just posted", now},
		{"today", now},
		{"yesterday", now.AddDate(0, 0, -1)},
	}
	for _, tc := range cases {
		got := ParseWhen(tc.in, now)
		if !got.Equal(tc.want) {
			t.Errorf("ParseWhen(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseWhen_UnparseableIsZero(t *testing.T) {
	now := time.Now()
	for _, in := range []string{"", "soon", "last Tuesday-ish", "???"} {
		if got := ParseWhen(in, now); !got.IsZero() {
			t.Errorf("ParseWhen(%q) = %v, want zero", in, got)
		}
	}
}
