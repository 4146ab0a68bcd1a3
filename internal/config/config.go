package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Tier is one ordered keyword tier for role scoring.
type Tier struct {
	Name   string   `yaml:"name"`
	Weight int      `yaml:"weight"`
	Any    []string `yaml:"any"`
}

// Exclusion is a negative-weight keyword group. A listing that matches an
// exclusion still survives when it also matches any of CarveOut (hybrid
// roles that mention both engineering and analyst work).
type Exclusion struct {
	Reason   string   `yaml:"reason"`
	Weight   int      `yaml:"weight"`
	Any      []string `yaml:"any"`
	CarveOut []string `yaml:"carve_out"`
}

// Feed is one RSS/Atom source.
type Feed struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Board is one HTML board scraped without a browser.
type Board struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// BrowserBoard is one JS-heavy board rendered in headless Chrome.
type BrowserBoard struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	OMDb struct {
		// API key is read from env/keyring, never from the config file.
		DailyBudget   int    `yaml:"daily_budget"`
		RatePerMinute int    `yaml:"rate_per_minute"` // 0 disables per-caller limiting
		CallerKey     string `yaml:"caller_key"`      // optional X-Api-Key gate; empty disables
		CounterStore  string `yaml:"counter_store"`   // memory / sqlite / redis
	} `yaml:"omdb"`

	Cache struct {
		RedisAddr  string `yaml:"redis_addr"` // empty -> in-memory TTL cache
		TTLMinutes int    `yaml:"ttl_minutes"`
	} `yaml:"cache"`

	Aggregate struct {
		DefaultDays        int `yaml:"default_days"`
		MaxDays            int `yaml:"max_days"`
		DefaultLimit       int `yaml:"default_limit"`
		MaxLimit           int `yaml:"max_limit"`
		PerSourceCap       int `yaml:"per_source_cap"`
		FetchTimeoutSec    int `yaml:"fetch_timeout_sec"`
		BrowserTimeoutSec  int `yaml:"browser_timeout_sec"`
		BrowserConcurrency int `yaml:"browser_concurrency"`
	} `yaml:"aggregate"`

	Sources struct {
		Remotive struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"remotive"`
		Arbeitnow struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"arbeitnow"`
		Jobicy struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"jobicy"`
		Feeds struct {
			Enabled bool   `yaml:"enabled"`
			Items   []Feed `yaml:"items"`
		} `yaml:"feeds"`
		Boards struct {
			Enabled bool    `yaml:"enabled"`
			Items   []Board `yaml:"items"`
		} `yaml:"boards"`
		Browser struct {
			Enabled bool           `yaml:"enabled"`
			Items   []BrowserBoard `yaml:"items"`
		} `yaml:"browser"`
	} `yaml:"sources"`

	Scoring struct {
		Tiers      []Tier      `yaml:"tiers"`
		Exclusions []Exclusion `yaml:"exclusions"`

		TargetRegions     []string `yaml:"target_regions"`
		RemoteRegionBoost int      `yaml:"remote_region_boost"`
		RemoteBoost       int      `yaml:"remote_boost"`
		RegionBoost       int      `yaml:"region_boost"`

		Experience struct {
			MinYears int `yaml:"min_years"`
			MaxYears int `yaml:"max_years"`
			Bonus    int `yaml:"bonus"`
		} `yaml:"experience"`
	} `yaml:"scoring"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
