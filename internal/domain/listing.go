package domain

import "time"

// Listing is the one canonical shape every source is normalized into.
// It lives for a single aggregation request (or one cache TTL window);
// nothing mutates it after normalization.
type Listing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Source      string    `json:"source"`
	PostedAt    time.Time `json:"postedAt"`
	Tags        []string  `json:"tags,omitempty"`

	// Derived per request, recomputed by the ranker. Never persisted.
	RankScore int    `json:"rankScore"`
	RoleTier  string `json:"roleTier,omitempty"`
}

// RawRecord is what a fetcher hands to the normalizer before defaulting
// and date parsing. Shape varies per source; blank fields are allowed.
type RawRecord struct {
	ID          string
	Title       string
	Company     string
	Location    string
	URL         string
	Description string
	Source      string
	DateText    string    // ISO string, RFC1123, or a relative phrase ("3 days ago")
	Date        time.Time // set directly when the source gives a real timestamp
	Tags        []string
}
