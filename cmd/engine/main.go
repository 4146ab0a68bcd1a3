package main

import (
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"scout-engine/internal/aggregate"
	"scout-engine/internal/cache"
	"scout-engine/internal/config"
	"scout-engine/internal/counter"
	"scout-engine/internal/httpapi"
	"scout-engine/internal/omdb"
	"scout-engine/internal/poster"
	"scout-engine/internal/rank"
	"scout-engine/internal/secrets"
	"scout-engine/internal/source"
	"scout-engine/internal/source/util"
)

func main() {
	dataDir := os.Getenv("SCOUT_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per data dir; a second instance would fight over the
	// sqlite counters.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("lock data dir: %v", err)
	}
	if !locked {
		log.Fatalf("another engine instance owns %s", dataDir)
	}
	defer lock.Unlock()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	config.ApplyDefaults(&cfg)

	redisAddr := os.Getenv("SCOUT_REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = cfg.Cache.RedisAddr
	}

	var resultCache cache.Cache
	if redisAddr != "" {
		resultCache = cache.NewRedis(redisAddr)
	} else {
		resultCache = cache.NewMemory()
	}

	counters, cleanup, err := buildCounterStore(cfg, dataDir, redisAddr)
	if err != nil {
		log.Fatalf("counter store: %v", err)
	}
	defer cleanup()

	limiter := util.NewHostLimiter(2, 4)

	agg := &aggregate.Aggregator{
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
	}

	movie := &omdb.Service{
		Client:        omdb.NewClient(),
		Counters:      counters,
		APIKey:        secrets.OMDbAPIKey,
		CallerKey:     cfg.OMDb.CallerKey,
		Budget:        cfg.OMDb.DailyBudget,
		RatePerMinute: cfg.OMDb.RatePerMinute,
	}

	mux := httpapi.NewMux(httpapi.Deps{
		Aggregator: agg,
		Movie:      movie,
		Posters:    poster.New(),
	})

	handler := httpapi.Chain(mux,
		httpapi.Cors,
		httpapi.RequestID,
		httpapi.Recover,
		httpapi.AccessLog,
	)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("engine listening on http://%s (data=%s)", addr, dataDir)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Fatal(srv.Serve(ln))
}

// buildCounterStore picks the usage-counter backend: redis for
// multi-instance setups, sqlite to survive restarts, memory otherwise.
func buildCounterStore(cfg config.Config, dataDir, redisAddr string) (counter.Store, func(), error) {
	switch cfg.OMDb.CounterStore {
	case "redis":
		if redisAddr == "" {
			return nil, nil, fmt.Errorf("counter_store=redis but no redis address configured")
		}
		return counter.NewRedis(redisAddr), func() {}, nil
	case "sqlite":
		db, err := sql.Open("sqlite", filepath.Join(dataDir, "scout.db"))
		if err != nil {
			return nil, nil, err
		}
		s, err := counter.NewSQLite(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return s, func() { db.Close() }, nil
	default:
		return counter.NewMemory(), func() {}, nil
	}
}
