package rank

import (
	"sort"
	"time"

	"scout-engine/internal/domain"
)

// Options bound one ranking pass. Days is the freshness window; Limit is
// already clamped by the caller.
type Options struct {
	Days  int
	Limit int
	Now   time.Time
}

// Pipeline runs the full rank/filter/dedup pass over merged listings.
// Input order is the deterministic merge order, so first-occurrence-wins
// dedup gives the same output for the same input.
//
// Order of operations: freshness filter and scoring per listing, drop
// negatives, dedup by URL, sort by score then date, truncate.
func Pipeline(scorer Scorer, merged []domain.Listing, opts Options) []domain.Listing {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	cutoff := now.Add(-time.Duration(opts.Days) * 24 * time.Hour)

	kept := make([]domain.Listing, 0, len(merged))
	for _, l := range merged {
		// Unparseable date means freshness can't be proven; drop.
		if l.PostedAt.IsZero() {
			continue
		}
		if l.PostedAt.Before(cutoff) || l.PostedAt.After(now) {
			continue
		}

		score, tier := scorer.Score(l)
		if score < 0 {
			continue
		}
		l.RankScore = score
		l.RoleTier = tier
		kept = append(kept, l)
	}

	deduped := dedupByURL(kept)

	sort.SliceStable(deduped, func(i, j int) bool {
		if deduped[i].RankScore != deduped[j].RankScore {
			return deduped[i].RankScore > deduped[j].RankScore
		}
		return deduped[i].PostedAt.After(deduped[j].PostedAt)
	})

	if opts.Limit > 0 && len(deduped) > opts.Limit {
		deduped = deduped[:opts.Limit]
	}
	return deduped
}

// dedupByURL keeps the first occurrence of every URL. Listings without a
// URL carry no identity and are dropped here rather than colliding with
// each other.
func dedupByURL(in []domain.Listing) []domain.Listing {
	seen := make(map[string]bool, len(in))
	out := make([]domain.Listing, 0, len(in))
	for _, l := range in {
		if l.URL == "" || seen[l.URL] {
			continue
		}
		seen[l.URL] = true
		out = append(out, l)
	}
	return out
}
