package remotive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"scout-engine/internal/domain"
	"scout-engine/internal/source/types"
	"scout-engine/internal/source/util"
)

const apiURL = "https://remotive.com/api/remote-jobs"

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
		cfg.MaxItems = 50
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Fetcher{cfg: cfg, hc: util.NewClient(cfg.Timeout)}
}

func (f *Fetcher) Name() string { return "remotive" }

type remotiveJob struct {
	ID          int64    `json:"id"`
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	CompanyName string   `json:"company_name"`
	Location    string   `json:"candidate_required_location"`
	PubDate     string   `json:"publication_date"` // "2024-05-02T07:00:33"
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

func (f *Fetcher) Fetch(ctx context.Context, query string) (types.FetchResult, error) {
	u := apiURL
	if q := strings.TrimSpace(query); q != "" {
		u += "?search=" + url.QueryEscape(q)
	}

	if f.cfg.Limiter != nil {
		if err := f.cfg.Limiter.WaitURL(ctx, u); err != nil {
			return types.FetchResult{Source: f.Name()}, err
		}
	}

	body, err := util.GetBody(ctx, f.hc, u)
	if err != nil {
		return types.FetchResult{Source: f.Name()}, fmt.Errorf("remotive: %w", err)
	}

	var resp remotiveResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return types.FetchResult{Source: f.Name()}, fmt.Errorf("remotive decode: %w", err)
	}

	jobs := resp.Jobs
	if len(jobs) > f.cfg.MaxItems {
		jobs = jobs[:f.cfg.MaxItems]
	}

	out := make([]domain.RawRecord, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, domain.RawRecord{
			ID:          fmt.Sprintf("remotive-%d", j.ID),
			Title:       j.Title,
			Company:     j.CompanyName,
			Location:    j.Location,
			URL:         j.URL,
			Description: util.StripTags(j.Description),
			Source:      f.Name(),
			DateText:    j.PubDate,
			Tags:        j.Tags,
		})
	}
	return types.FetchResult{Source: f.Name(), Records: out}, nil
}
