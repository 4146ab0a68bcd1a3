package normalize

import (
	"strings"
	"time"

	"scout-engine/internal/domain"
	"scout-engine/internal/source/util"
)

const maxDescriptionRunes = 500

// Record maps one raw source record into the canonical Listing shape.
// Records carrying neither a title nor a URL are unusable and come back
// false. Defaulting: company -> "Unknown", location -> "Remote". A record
// with a parseable timestamp keeps it; an API record with no date at all
// falls back to fetch time; date text that exists but won't parse stays the
// zero time so the freshness filter can drop it.
func Record(r domain.RawRecord, now time.Time) (domain.Listing, bool) {
	title := util.CleanText(r.Title)
	url := strings.TrimSpace(r.URL)
	if title == "" && url == "" {
		return domain.Listing{}, false
	}

	company := util.CleanText(r.Company)
	if company == "" {
		company = "Unknown"
	}
	location := util.CleanText(r.Location)
	if location == "" {
		location = "Remote"
	}

	posted := r.Date
	if posted.IsZero() {
		if strings.TrimSpace(r.DateText) != "" {
			posted = ParseWhen(r.DateText, now)
		} else {
			posted = now
		}
	}

	id := r.ID
	if id == "" {
		id = r.Source + "-" + url
	}

	return domain.Listing{
		ID:          id,
		Title:       title,
		Company:     company,
		Location:    location,
		URL:         url,
		Description: util.Truncate(util.CleanText(r.Description), maxDescriptionRunes),
		Source:      r.Source,
		PostedAt:    posted,
		Tags:        r.Tags,
	}, true
}

// Records normalizes a batch, dropping unusable entries.
func Records(in []domain.RawRecord, now time.Time) []domain.Listing {
	out := make([]domain.Listing, 0, len(in))
	for _, r := range in {
		if l, ok := Record(r, now); ok {
			out = append(out, l)
		}
	}
	return out
}
