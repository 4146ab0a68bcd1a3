package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// absoluteLayouts covers what the sources actually emit: ISO timestamps
// with and without zones, RSS pubDates, and bare dates.
var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"2006-01-02",
	"02 Jan 2006",
}

var relativeRe = regexp.MustCompile(`(?i)(\d+)\+?\s*(minute|min|hour|hr|day|week|month)s?\s*ago`)

// ParseWhen turns a source's date text into a timestamp. It accepts ISO and
// RSS layouts and relative phrases ("3 days ago", "30+ days ago", "today").
// The zero time means unparseable; the ranker treats that as "can't prove
// freshness" and drops the listing.
func ParseWhen(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	low := strings.ToLower(s)
	switch {
	case strings.Contains(low, "just now"), strings.Contains(low, "just posted"),
		strings.Contains(low, "today"), strings.Contains(low, "active"):
		return now
	case strings.Contains(low, "yesterday"):
		return now.AddDate(0, 0, -1)
	}

	if m := relativeRe.FindStringSubmatch(low); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}
		}
		switch m[2] {
		case "minute", "min":
			return now.Add(-time.Duration(n) * time.Minute)
		case "hour", "hr":
			return now.Add(-time.Duration(n) * time.Hour)
		case "day":
			return now.AddDate(0, 0, -n)
		case "week":
			return now.AddDate(0, 0, -7*n)
		case "month":
			return now.AddDate(0, -n, 0)
		}
	}

	return time.Time{}
}
