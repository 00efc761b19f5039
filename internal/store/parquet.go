package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/parquet-go/parquet-go"
)

// Compile-time interface check.
var _ IndicatorStore = (*ParquetStore)(nil)

// ParquetStore keeps all indicators in a single Parquet file under DataDir.
type ParquetStore struct {
	DataDir string
}

// NewParquetStore creates a new ParquetStore rooted at the given data directory.
func NewParquetStore(dataDir string) *ParquetStore {
	return &ParquetStore{DataDir: dataDir}
}

// ---------------------------------------------------------------------------
// Parquet record types (on-disk schema)
// ---------------------------------------------------------------------------

// IndicatorRecord is the Parquet schema for exported indicators.
type IndicatorRecord struct {
	Date        string `parquet:"date"` // YYYY-MM-DD
	TotalDeaths int64  `parquet:"total_deaths"`
	TotalCases  int64  `parquet:"total_cases"`
	RNumber     string `parquet:"r_number"`
}

// ---------------------------------------------------------------------------
// IndicatorStore implementation
// ---------------------------------------------------------------------------

// WriteIndicators merges rows into the existing file, replacing rows that
// share a date.
func (s *ParquetStore) WriteIndicators(_ context.Context, rows []Indicator) error {
	if len(rows) == 0 {
		return nil
	}

	records := make([]IndicatorRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, IndicatorRecord{
			Date:        r.Date,
			TotalDeaths: r.TotalDeaths,
			TotalCases:  r.TotalCases,
			RNumber:     r.RNumber,
		})
	}

	path := s.Path()
	existing, err := readParquetFile[IndicatorRecord](path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	merged := mergeIndicatorRecords(existing, records)

	if err := writeParquetFile(path, merged); err != nil {
		return fmt.Errorf("writing indicators: %w", err)
	}
	return nil
}

// ReadIndicators reads the file back. A missing file yields no rows.
func (s *ParquetStore) ReadIndicators(_ context.Context) ([]Indicator, error) {
	records, err := readParquetFile[IndicatorRecord](s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading indicators: %w", err)
	}

	out := make([]Indicator, 0, len(records))
	for _, r := range records {
		out = append(out, Indicator{
			Date:        r.Date,
			TotalDeaths: r.TotalDeaths,
			TotalCases:  r.TotalCases,
			RNumber:     r.RNumber,
		})
	}
	return out, nil
}

// Close is a no-op; files are closed after every call.
func (s *ParquetStore) Close() error { return nil }

// Path returns the indicator file location.
// Layout: <dataDir>/indicators.parquet
func (s *ParquetStore) Path() string {
	return filepath.Join(s.DataDir, "indicators.parquet")
}

// ---------------------------------------------------------------------------
// Parquet file helpers
// ---------------------------------------------------------------------------

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// mergeIndicatorRecords deduplicates records by date, preferring incoming
// records over existing ones. Results are sorted by date.
func mergeIndicatorRecords(existing, incoming []IndicatorRecord) []IndicatorRecord {
	seen := make(map[string]IndicatorRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[r.Date] = r
	}
	for _, r := range incoming {
		seen[r.Date] = r
	}

	merged := make([]IndicatorRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Date < merged[j].Date
	})
	return merged
}
