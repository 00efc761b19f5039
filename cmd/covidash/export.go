package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"covidash/internal/store"
	"covidash/internal/util"
	"covidash/pkg/covidapi"
)

const exportWorkers = 4

var (
	flagExportDir    string
	flagExportFormat string
	flagExportRate   int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export daily deaths, cases and R number for every date",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportDir, "dir", "", "output directory (default from config)")
	exportCmd.Flags().StringVar(&flagExportFormat, "format", "", "parquet or sqlite (default from config)")
	exportCmd.Flags().IntVar(&flagExportRate, "rate", 0, "max requests per minute, 0 for config value")
}

// indicatorSource is the slice of the API the export walk needs.
type indicatorSource interface {
	Dates(ctx context.Context) (covidapi.DatesResponse, error)
	CovidStats(ctx context.Context, date string) (covidapi.CovidStats, error)
	RNumbers(ctx context.Context, date string) (covidapi.RNumber, error)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagExportDir != "" {
		cfg.Export.Dir = flagExportDir
	}
	if flagExportFormat != "" {
		cfg.Export.Format = flagExportFormat
	}
	if flagExportRate > 0 {
		cfg.Export.RateLimitPerMin = flagExportRate
	}

	log := newLogger(cfg, os.Stderr)
	client := newClient(cfg, log)

	st, err := store.Open(cfg.Export.Format, cfg.Export.Dir)
	if err != nil {
		return err
	}
	defer st.Close()

	start := time.Now()
	limiter := util.NewRateLimiter(cfg.Export.RateLimitPerMin, exportWorkers)
	n, err := exportIndicators(cmd.Context(), client, st, limiter, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %d dates to %s (%s) in %s\n",
		n, cfg.Export.Dir, cfg.Export.Format, time.Since(start).Round(time.Millisecond))
	return nil
}

// exportIndicators fetches stats and R number for every date and writes one
// row per date. Any failed request aborts the export before anything is
// written.
func exportIndicators(ctx context.Context, src indicatorSource, st store.IndicatorStore, limiter *util.RateLimiter, log *slog.Logger) (int, error) {
	resp, err := src.Dates(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetching dates: %w", err)
	}
	log.Info("exporting indicators", "dates", len(resp.Dates), "start", resp.StartDate, "end", resp.EndDate)

	rows := make([]store.Indicator, len(resp.Dates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportWorkers)
	for i, d := range resp.Dates {
		i, d := i, d
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}
			stats, err := src.CovidStats(gctx, d)
			if err != nil {
				return fmt.Errorf("fetching stats for %s: %w", d, err)
			}
			if err := limiter.Wait(gctx); err != nil {
				return err
			}
			r, err := src.RNumbers(gctx, d)
			if err != nil {
				return fmt.Errorf("fetching r number for %s: %w", d, err)
			}
			rows[i] = store.Indicator{
				Date:        d,
				TotalDeaths: stats.TotalDeaths,
				TotalCases:  stats.TotalCases,
				RNumber:     r.RNumber,
			}
			log.Debug("exported date", "date", d)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if err := st.WriteIndicators(ctx, rows); err != nil {
		return 0, fmt.Errorf("writing indicators: %w", err)
	}
	return len(rows), nil
}
