package counter

import (
	"context"
	"database/sql"
	"time"
)

// SQLite persists counters across restarts for single-instance deployments
// that want the daily budget to survive a redeploy.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) (*SQLite, error) {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS counters (
  key TEXT PRIMARY KEY,
  n INTEGER NOT NULL DEFAULT 0,
  reset_at TEXT NOT NULL DEFAULT ''
);`)
	if err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Incr(ctx context.Context, key string, resetAt time.Time) (int64, error) {
	reset := ""
	if !resetAt.IsZero() {
		reset = resetAt.UTC().Format(time.RFC3339)
	}

	if err := s.evict(ctx, key); err != nil {
		return 0, err
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO counters(key, n, reset_at) VALUES(?, 1, ?)
ON CONFLICT(key) DO UPDATE SET n = n + 1;`, key, reset)
	if err != nil {
		return 0, err
	}
	return s.Get(ctx, key)
}

func (s *SQLite) Get(ctx context.Context, key string) (int64, error) {
	if err := s.evict(ctx, key); err != nil {
		return 0, err
	}

	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT n FROM counters WHERE key = ?;`, key).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return n, err
}

// evict deletes the row once its window has passed.
func (s *SQLite) evict(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `
DELETE FROM counters
WHERE key = ? AND reset_at != '' AND reset_at <= ?;`,
		key, time.Now().UTC().Format(time.RFC3339))
	return err
}
