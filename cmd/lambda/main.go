package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/google/uuid"

	"scout-engine/internal/aggregate"
	"scout-engine/internal/cache"
	"scout-engine/internal/config"
	"scout-engine/internal/counter"
	"scout-engine/internal/omdb"
	"scout-engine/internal/poster"
	"scout-engine/internal/rank"
	"scout-engine/internal/secrets"
	"scout-engine/internal/source"
	"scout-engine/internal/source/util"
)

// corsHeaders are attached to every response; these endpoints are called
// straight from browsers.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type, X-Api-Key",
	"Access-Control-Allow-Methods": "GET,OPTIONS",
	"Content-Type":                 "application/json",
}

type app struct {
	agg     *aggregate.Aggregator
	movie   *omdb.Service
	posters *poster.Scraper
}

func newApp() *app {
	var cfg config.Config
	config.ApplyDefaults(&cfg)

	redisAddr := os.Getenv("SCOUT_REDIS_ADDR")

	var resultCache cache.Cache
	var counters counter.Store
	if redisAddr != "" {
		resultCache = cache.NewRedis(redisAddr)
		counters = counter.NewRedis(redisAddr)
	} else {
		// Per-container memory only; counters reset with the sandbox.
		resultCache = cache.NewMemory()
		counters = counter.NewMemory()
	}

	limiter := util.NewHostLimiter(2, 4)

	// No config file in the function sandbox; the API and feed sources are
	// always on, the heavier browser sources opt in via env.
	cfg.Sources.Remotive.Enabled = true
	cfg.Sources.Arbeitnow.Enabled = true
	cfg.Sources.Jobicy.Enabled = true
	cfg.Sources.Feeds.Enabled = true
	cfg.Sources.Feeds.Items = []config.Feed{
		{Name: "weworkremotely", URL: "https://weworkremotely.com/categories/remote-data-analysis-jobs.rss"},
		{Name: "remoteok_rss", URL: "https://remoteok.com/remote-data-analyst-jobs.rss"},
	}
	if os.Getenv("SCOUT_BROWSER_SOURCES") == "1" {
		cfg.Sources.Browser.Enabled = true
		cfg.Sources.Browser.Items = []config.BrowserBoard{
			{Name: "linkedin", URL: "https://www.linkedin.com/jobs/search/?keywords=data%20analyst&f_TPR=r604800"},
			{Name: "naukri", URL: "https://www.naukri.com/data-analyst-jobs"},
			{Name: "indeed", URL: "https://in.indeed.com/jobs?q=data+analyst&fromage=7"},
		}
	}

	return &app{
		agg: &aggregate.Aggregator{
			Fetchers: source.Build(cfg, limiter),
			Scorer:   rank.Scorer{Cfg: cfg},
			Limits: aggregate.Limits{
				DefaultDays:  cfg.Aggregate.DefaultDays,
				MaxDays:      cfg.Aggregate.MaxDays,
				DefaultLimit: cfg.Aggregate.DefaultLimit,
				MaxLimit:     cfg.Aggregate.MaxLimit,
			},
			Cache:        resultCache,
			TTL:          time.Duration(cfg.Cache.TTLMinutes) * time.Minute,
			FetchTimeout: time.Duration(cfg.Aggregate.FetchTimeoutSec) * time.Second,
		},
		movie: &omdb.Service{
			Client:        omdb.NewClient(),
			Counters:      counters,
			APIKey:        secrets.OMDbAPIKey,
			CallerKey:     os.Getenv("SCOUT_CALLER_KEY"),
			Budget:        envInt("SCOUT_DAILY_BUDGET", cfg.OMDb.DailyBudget),
			RatePerMinute: envInt("SCOUT_RATE_PER_MINUTE", 0),
		},
		posters: poster.New(),
	}
}

func (a *app) handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	runID := uuid.New().String()
	log.Printf("run_id=%s path=%s method=%s", runID, req.Path, req.HTTPMethod)

	if req.HTTPMethod == http.MethodOptions {
		return respond(http.StatusNoContent, nil), nil
	}

	switch {
	case strings.HasSuffix(req.Path, "/jobs"):
		return a.handleJobs(ctx, req), nil
	case strings.HasSuffix(req.Path, "/movie"):
		return a.handleMovie(ctx, req), nil
	case strings.HasSuffix(req.Path, "/posters"):
		return a.handlePosters(ctx, req), nil
	case strings.HasSuffix(req.Path, "/health"):
		return respond(http.StatusOK, map[string]any{"ok": true}), nil
	}
	return errorResponse(http.StatusNotFound, "not_found", "unknown path"), nil
}

func (a *app) handleJobs(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	q := req.QueryStringParameters
	days, _ := strconv.Atoi(q["days"])
	limit, _ := strconv.Atoi(q["limit"])

	resp, err := a.agg.Run(ctx, aggregate.Request{
		Query: q["q"],
		Days:  days,
		Limit: limit,
		Force: q["force"] == "1",
	})
	if err != nil {
		return errorResponse(http.StatusInternalServerError, "internal_error", "aggregation failed")
	}
	return respond(http.StatusOK, resp)
}

func (a *app) handleMovie(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	q := req.QueryStringParameters

	if err := a.movie.CheckCallerKey(header(req.Headers, "X-Api-Key")); err != nil {
		return errorResponse(http.StatusUnauthorized, "unauthorized", "invalid api key")
	}

	if q["usage"] == "1" || q["stats"] == "1" {
		stats, err := a.movie.Usage(ctx)
		if err != nil {
			return errorResponse(http.StatusInternalServerError, "internal_error", "counter store unavailable")
		}
		return respond(http.StatusOK, stats)
	}

	caller := req.RequestContext.Identity.SourceIP
	payload, err := a.movie.Lookup(ctx, caller, omdb.Params{
		Title:  q["t"],
		Search: q["s"],
		ID:     q["i"],
	})
	if err != nil {
		var rl *omdb.RateLimitedError
		switch {
		case errors.Is(err, omdb.ErrNoServerKey):
			return errorResponse(http.StatusServiceUnavailable, "not_configured", "omdb api key not configured")
		case errors.As(err, &rl):
			resp := errorResponse(http.StatusTooManyRequests, "rate_limited", "too many requests")
			resp.Headers["Retry-After"] = strconv.Itoa(int(rl.RetryAfter.Seconds()) + 1)
			return resp
		case errors.Is(err, omdb.ErrBudgetExceeded):
			return errorResponse(http.StatusTooManyRequests, "budget_exceeded", "daily request budget exceeded")
		case errors.Is(err, omdb.ErrMissingParams):
			return errorResponse(http.StatusBadRequest, "bad_request", err.Error())
		}
		return errorResponse(http.StatusBadGateway, "upstream_error", "upstream request failed")
	}
	return respond(http.StatusOK, payload)
}

func (a *app) handlePosters(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	q := req.QueryStringParameters

	res, err := a.posters.Scrape(ctx, q["i"], q["title"], q["type"])
	if err != nil {
		return errorResponse(http.StatusBadRequest, "bad_request", err.Error())
	}
	return respond(http.StatusOK, res)
}

func respond(status int, v any) events.APIGatewayProxyResponse {
	headers := make(map[string]string, len(corsHeaders))
	for k, val := range corsHeaders {
		headers[k] = val
	}
	body := ""
	if v != nil {
		b, _ := json.Marshal(v)
		body = string(b)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       body,
	}
}

func errorResponse(status int, code, message string) events.APIGatewayProxyResponse {
	return respond(status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

// header looks a name up case-insensitively. API Gateway proxy events keep
// the caller's original header casing, so a plain map index misses
// "X-Api-Key" vs "x-api-key".
func header(h map[string]string, name string) string {
	for k, v := range h {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func envInt(name string, def int) int {
	n, err := strconv.Atoi(os.Getenv(name))
	if err != nil {
		return def
	}
	return n
}

func main() {
	a := newApp()
	lambda.Start(a.handle)
}
