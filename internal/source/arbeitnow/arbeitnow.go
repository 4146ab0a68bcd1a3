package arbeitnow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"scout-engine/internal/domain"
	"scout-engine/internal/source/types"
	"scout-engine/internal/source/util"
)

const apiURL = "https://www.arbeitnow.com/api/job-board-api"

type Config struct {
	MaxItems int
	Timeout  time.Duration
	Limiter  *util.HostLimiter
}

type Fetcher struct {
	cfg Config
	hc  *http.Client
}

func New(cfg Config) *Fetcher {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 40
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Fetcher{cfg: cfg, hc: util.NewClient(cfg.Timeout)}
}

func (f *Fetcher) Name() string { return "arbeitnow" }

type arbeitnowJob struct {
	Slug        string   `json:"slug"`
	CompanyName string   `json:"company_name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Remote      bool     `json:"remote"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags"`
	Location    string   `json:"location"`
	CreatedAt   int64    `json:"created_at"` // unix seconds
}

type arbeitnowResponse struct {
	Data []arbeitnowJob `json:"data"`
}

// Fetch pulls the whole board and filters by query locally; the API has no
// search parameter.
func (f *Fetcher) Fetch(ctx context.Context, query string) (types.FetchResult, error) {
	if f.cfg.Limiter != nil {
		if err := f.cfg.Limiter.WaitURL(ctx, apiURL); err != nil {
			return types.FetchResult{Source: f.Name()}, err
		}
	}

	body, err := util.GetBody(ctx, f.hc, apiURL)
	if err != nil {
		return types.FetchResult{Source: f.Name()}, fmt.Errorf("arbeitnow: %w", err)
	}

	var resp arbeitnowResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return types.FetchResult{Source: f.Name()}, fmt.Errorf("arbeitnow decode: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]domain.RawRecord, 0, len(resp.Data))
	for _, j := range resp.Data {
		if len(out) >= f.cfg.MaxItems {
			break
		}
		if q != "" && !matchesQuery(j, q) {
			continue
		}
		loc := j.Location
		if j.Remote && loc == "" {
			loc = "Remote"
		}
		var d time.Time
		if j.CreatedAt > 0 {
			d = time.Unix(j.CreatedAt, 0)
		}
		out = append(out, domain.RawRecord{
			ID:          "arbeitnow-" + j.Slug,
			Title:       j.Title,
			Company:     j.CompanyName,
			Location:    loc,
			URL:         j.URL,
			Description: util.StripTags(j.Description),
			Source:      f.Name(),
			Date:        d,
			Tags:        j.Tags,
		})
	}
	return types.FetchResult{Source: f.Name(), Records: out}, nil
}

func matchesQuery(j arbeitnowJob, q string) bool {
	blob := strings.ToLower(j.Title + " " + j.Description + " " + strings.Join(j.Tags, " "))
	for _, word := range strings.Fields(q) {
		if !strings.Contains(blob, word) {
			return false
		}
	}
	return true
}
