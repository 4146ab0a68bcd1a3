package rank

import (
	"regexp"
	"strconv"
	"strings"

	"scout-engine/internal/config"
	"scout-engine/internal/domain"
)

// Scorer computes the composite relevance score: role tier + location +
// experience match. A negative composite is the exclusion mechanism, not
// just a sort key; the pipeline drops those listings entirely.
type Scorer struct {
	Cfg config.Config
}

// Score returns the composite score and the first-matching tier name.
func (s Scorer) Score(l domain.Listing) (int, string) {
	text := strings.ToLower(l.Title + " " + l.Description)

	score, tier := s.roleScore(text)
	score += s.locationScore(strings.ToLower(l.Location), text)
	score += s.experienceScore(text)
	return score, tier
}

func (s Scorer) roleScore(text string) (int, string) {
	score := 0
	tier := ""
	for _, t := range s.Cfg.Scoring.Tiers {
		if containsAny(text, t.Any) {
			score += t.Weight
			if tier == "" {
				tier = t.Name
			}
		}
	}

	for _, ex := range s.Cfg.Scoring.Exclusions {
		if !containsAny(text, ex.Any) {
			continue
		}
		if containsAny(text, ex.CarveOut) {
			continue // hybrid role, keep it
		}
		score += ex.Weight
	}
	return score, tier
}

// locationScore: remote + target region beats remote-only beats onsite in
// the target region. Substring matching, not geocoding.
func (s Scorer) locationScore(location, text string) int {
	remote := strings.Contains(location, "remote") || strings.Contains(text, "remote")
	region := containsAny(location, s.Cfg.Scoring.TargetRegions) ||
		containsAny(text, s.Cfg.Scoring.TargetRegions)

	switch {
	case remote && region:
		return s.Cfg.Scoring.RemoteRegionBoost
	case remote:
		return s.Cfg.Scoring.RemoteBoost
	case region:
		return s.Cfg.Scoring.RegionBoost
	}
	return 0
}

var yearRangeRe = regexp.MustCompile(`(\d{1,2})\s*(?:-|–|to)\s*(\d{1,2})\+?\s*(?:years|yrs|year)`)
var yearSingleRe = regexp.MustCompile(`(\d{1,2})\+?\s*(?:years|yrs|year)`)

// experienceScore adds a small bonus when an explicit year mention overlaps
// the configured band. Absence never penalizes.
func (s Scorer) experienceScore(text string) int {
	exp := s.Cfg.Scoring.Experience
	if exp.Bonus <= 0 {
		return 0
	}

	if m := yearRangeRe.FindStringSubmatch(text); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if lo <= exp.MaxYears && hi >= exp.MinYears {
			return exp.Bonus
		}
		return 0
	}
	if m := yearSingleRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n >= exp.MinYears && n <= exp.MaxYears {
			return exp.Bonus
		}
	}
	return 0
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
