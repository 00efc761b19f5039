package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ IndicatorStore = (*SQLiteStore)(nil)

const createIndicators = `
CREATE TABLE IF NOT EXISTS indicators (
	date         TEXT PRIMARY KEY,
	total_deaths INTEGER NOT NULL,
	total_cases  INTEGER NOT NULL,
	r_number     TEXT NOT NULL
)`

const upsertIndicator = `
INSERT INTO indicators (date, total_deaths, total_cases, r_number)
VALUES (?, ?, ?, ?)
ON CONFLICT(date) DO UPDATE SET
	total_deaths = excluded.total_deaths,
	total_cases  = excluded.total_cases,
	r_number     = excluded.r_number`

// SQLiteStore implements IndicatorStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns
// a ready-to-use SQLiteStore.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(createIndicators); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating indicators table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// WriteIndicators upserts rows in a single transaction.
func (s *SQLiteStore) WriteIndicators(ctx context.Context, rows []Indicator) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertIndicator)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Date, r.TotalDeaths, r.TotalCases, r.RNumber); err != nil {
			return fmt.Errorf("upserting indicator %s: %w", r.Date, err)
		}
	}
	return tx.Commit()
}

// ReadIndicators returns all rows ordered by date.
func (s *SQLiteStore) ReadIndicators(ctx context.Context) ([]Indicator, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, total_deaths, total_cases, r_number FROM indicators ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Indicator
	for rows.Next() {
		var r Indicator
		if err := rows.Scan(&r.Date, &r.TotalDeaths, &r.TotalCases, &r.RNumber); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
