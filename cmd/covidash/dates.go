package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagAllDates bool

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "Show the date range available from the backend",
	RunE:  runDates,
}

func init() {
	datesCmd.Flags().BoolVar(&flagAllDates, "all", false, "list every date")
}

func runDates(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg, newLogger(cfg, os.Stderr))

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout())
	defer cancel()

	resp, err := client.Dates(ctx)
	if err != nil {
		return fmt.Errorf("fetching dates: %w", err)
	}

	out := cmd.OutOrStdout()
	if flagAllDates {
		for _, d := range resp.Dates {
			fmt.Fprintln(out, d)
		}
		return nil
	}
	fmt.Fprintf(out, "%s .. %s (%d dates)\n", resp.StartDate, resp.EndDate, len(resp.Dates))
	return nil
}
