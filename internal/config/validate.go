package config

// ApplyDefaults fills zero values with working defaults so a sparse user
// config still boots. Clamps are enforced again at request time; these are
// the server-side ceilings.
func ApplyDefaults(cfg *Config) {
	if cfg.App.Port <= 0 {
		cfg.App.Port = 38562
	}
	if cfg.App.DataDir == "" {
		cfg.App.DataDir = "."
	}

	if cfg.OMDb.DailyBudget <= 0 {
		cfg.OMDb.DailyBudget = 900
	}
	if cfg.OMDb.CounterStore == "" {
		cfg.OMDb.CounterStore = "memory"
	}

	if cfg.Cache.TTLMinutes <= 0 {
		cfg.Cache.TTLMinutes = 30
	}

	a := &cfg.Aggregate
	if a.DefaultDays <= 0 {
		a.DefaultDays = 7
	}
	if a.MaxDays <= 0 {
		a.MaxDays = 30
	}
	if a.DefaultLimit <= 0 {
		a.DefaultLimit = 25
	}
	if a.MaxLimit <= 0 {
		a.MaxLimit = 100
	}
	if a.PerSourceCap <= 0 {
		a.PerSourceCap = 50
	}
	if a.FetchTimeoutSec <= 0 {
		a.FetchTimeoutSec = 15
	}
	if a.BrowserTimeoutSec <= 0 {
		a.BrowserTimeoutSec = 30
	}
	if a.BrowserConcurrency <= 0 {
		a.BrowserConcurrency = 4
	}

	s := &cfg.Scoring
	if len(s.Tiers) == 0 {
		s.Tiers = DefaultTiers()
	}
	if len(s.Exclusions) == 0 {
		s.Exclusions = DefaultExclusions()
	}
	if len(s.TargetRegions) == 0 {
		s.TargetRegions = []string{"india", "bangalore", "bengaluru", "hyderabad", "pune", "mumbai", "delhi", "noida", "gurgaon", "gurugram", "chennai"}
	}
	if s.RemoteRegionBoost <= 0 {
		s.RemoteRegionBoost = 50
	}
	if s.RemoteBoost <= 0 {
		s.RemoteBoost = 40
	}
	if s.RegionBoost <= 0 {
		s.RegionBoost = 25
	}
	if s.Experience.MaxYears <= 0 {
		s.Experience.MaxYears = 3
	}
	if s.Experience.Bonus <= 0 {
		s.Experience.Bonus = 15
	}
}

// DefaultTiers encodes the role keyword tiers the ranker ships with.
// Ordered: first match wins for the tier label, weights add for scoring.
func DefaultTiers() []Tier {
	return []Tier{
		{
			Name:   "analyst",
			Weight: 100,
			Any: []string{
				"data analyst", "business analyst", "bi analyst",
				"business intelligence", "analytics engineer",
				"reporting analyst", "power bi", "tableau",
			},
		},
		{
			Name:   "data-science",
			Weight: 60,
			Any: []string{
				"data scientist", "data science", "machine learning",
				"ml engineer", "applied scientist",
			},
		},
		{
			Name:   "analytics",
			Weight: 25,
			Any: []string{
				"analytics", "insights", "sql", "dashboards",
			},
		},
	}
}

// DefaultExclusions drops pure data-engineering roles unless the text also
// carries an analyst/BI keyword (hybrid-role carve-out).
func DefaultExclusions() []Exclusion {
	return []Exclusion{
		{
			Reason: "data_engineering",
			Weight: -200,
			Any: []string{
				"data engineer", "data engineering", "etl developer",
				"platform engineer", "infrastructure engineer",
			},
			CarveOut: []string{
				"analyst", "business intelligence", "bi ", "reporting",
			},
		},
	}
}
