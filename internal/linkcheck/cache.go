package linkcheck

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Cache persists probe verdicts between check runs so a known-good URL is
// not probed again within the TTL. Use ":memory:" for a throwaway cache.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
}

// OpenCache opens or creates the probe cache at dbPath.
func OpenCache(dbPath string, ttl time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open probe cache: %w", err)
	}
	schema := `
	CREATE TABLE IF NOT EXISTS probes (
		url TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		message TEXT,
		checked_at INTEGER NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize probe cache schema: %w", err)
	}
	return &Cache{db: db, ttl: ttl}, nil
}

// Get returns a cached verdict that is still within the TTL. Only ok
// verdicts are served from cache; failures are always re-probed.
func (c *Cache) Get(ctx context.Context, url string) (Status, string, bool) {
	var (
		status    string
		message   sql.NullString
		checkedAt int64
	)
	row := c.db.QueryRowContext(ctx, `SELECT status, message, checked_at FROM probes WHERE url = ?`, url)
	if err := row.Scan(&status, &message, &checkedAt); err != nil {
		return "", "", false
	}
	if Status(status) != StatusOK {
		return "", "", false
	}
	if time.Since(time.Unix(checkedAt, 0)) > c.ttl {
		return "", "", false
	}
	return Status(status), message.String, true
}

// Put records a verdict.
func (c *Cache) Put(ctx context.Context, url string, status Status, message string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO probes (url, status, message, checked_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET status = excluded.status, message = excluded.message, checked_at = excluded.checked_at`,
		url, string(status), message, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("record probe verdict: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
