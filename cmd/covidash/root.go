package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"covidash/internal/config"
	"covidash/internal/util"
	"covidash/pkg/covidapi"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const defaultConfigPath = "covidash.yaml"

var flagConfig string

var rootCmd = &cobra.Command{
	Use:          "covidash",
	Short:        "Terminal dashboard for COVID-19 tweet sentiment",
	Long:         "covidash browses the COVID-19 sentiment backend day by day: headline figures, sentiment charts, hashtags and news, with timed playback.",
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return loadDotenv(".env")
	}
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default $COVIDASH_CONFIG or ./covidash.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(datesCmd)
	rootCmd.AddCommand(exportCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "covidash %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

// loadDotenv reads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is ignored.
func loadDotenv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// loadConfig resolves the config path from --config, then COVIDASH_CONFIG,
// then the default. Only an explicitly named file has to exist.
func loadConfig() (*config.Config, error) {
	path, explicit := flagConfig, true
	if path == "" {
		path = os.Getenv("COVIDASH_CONFIG")
	}
	if path == "" {
		path, explicit = defaultConfigPath, false
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the command logger from the logging config.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return util.NewLogger(w, cfg.Logging.Level, cfg.Logging.Format)
}

// newClient builds the cached API client.
func newClient(cfg *config.Config, log *slog.Logger) *covidapi.Client {
	return covidapi.NewClient(cfg.API.BaseURL,
		covidapi.WithHTTPClient(&http.Client{Timeout: cfg.Timeout()}),
		covidapi.WithLogger(log),
	)
}
