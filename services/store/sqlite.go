package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"sjsage522/pricetracker/internal/tracker"
)

// SQLiteStore implements Storer on a local SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

var _ Storer = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database file and ensures
// the schema exists. Prices are stored as TEXT to keep decimal values
// exact; timestamps are RFC3339Nano TEXT.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("unable to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("%s?_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) migrate(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS products (
	url             TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	target_price    TEXT NOT NULL,
	last_price      TEXT NOT NULL,
	last_checked_at TEXT NOT NULL
);
`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Get returns the observation for a URL, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, url string) (*tracker.Observation, error) {
	query := `SELECT url, name, target_price, last_price, last_checked_at FROM products WHERE url = ?`

	var obs tracker.Observation
	var targetStr, lastStr, checkedAtStr string
	err := s.db.QueryRowContext(ctx, query, url).Scan(&obs.URL, &obs.Name, &targetStr, &lastStr, &checkedAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get observation: %w", err)
	}

	if obs.TargetPrice, err = decimal.NewFromString(targetStr); err != nil {
		return nil, fmt.Errorf("corrupt target_price for %s: %w", url, err)
	}
	if obs.LastPrice, err = decimal.NewFromString(lastStr); err != nil {
		return nil, fmt.Errorf("corrupt last_price for %s: %w", url, err)
	}
	obs.LastCheckedAt, _ = time.Parse(time.RFC3339Nano, checkedAtStr)
	return &obs, nil
}

// Upsert inserts the observation or replaces every field except the key.
func (s *SQLiteStore) Upsert(ctx context.Context, obs tracker.Observation) error {
	query := `
INSERT INTO products (url, name, target_price, last_price, last_checked_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(url) DO UPDATE SET
	name            = excluded.name,
	target_price    = excluded.target_price,
	last_price      = excluded.last_price,
	last_checked_at = excluded.last_checked_at`

	_, err := s.db.ExecContext(ctx, query,
		obs.URL,
		obs.Name,
		obs.TargetPrice.String(),
		obs.LastPrice.String(),
		obs.LastCheckedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert observation for %s: %w", obs.URL, err)
	}
	return nil
}
