// Package store persists the headline indicators exported from the
// dashboard backend.
package store

import (
	"context"
	"fmt"
	"path/filepath"
)

// Indicator is one date's headline figures.
type Indicator struct {
	Date        string
	TotalDeaths int64
	TotalCases  int64
	RNumber     string
}

// IndicatorStore persists and retrieves indicators keyed by date.
type IndicatorStore interface {
	// WriteIndicators upserts a batch of indicators. A date already present
	// is replaced by the incoming row.
	WriteIndicators(ctx context.Context, rows []Indicator) error

	// ReadIndicators returns every stored indicator ordered by date.
	ReadIndicators(ctx context.Context) ([]Indicator, error)

	// Close releases any underlying resources.
	Close() error
}

// Supported export formats.
const (
	FormatParquet = "parquet"
	FormatSQLite  = "sqlite"
)

// Open returns the store for format rooted in dir.
func Open(format, dir string) (IndicatorStore, error) {
	switch format {
	case FormatParquet:
		return NewParquetStore(dir), nil
	case FormatSQLite:
		return NewSQLiteStore(filepath.Join(dir, "indicators.db"))
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}
