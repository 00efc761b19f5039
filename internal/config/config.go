package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the covidash client.
type Config struct {
	API      API      `yaml:"api"`
	Playback Playback `yaml:"playback"`
	Filters  Filters  `yaml:"filters"`
	Export   Export   `yaml:"export"`
	Logging  Logging  `yaml:"logging"`
}

// API holds the backend endpoint settings.
type API struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// Playback controls the auto-advance loop.
type Playback struct {
	Interval string `yaml:"interval"`
}

// Filters holds the initial selector values for both pages.
type Filters struct {
	Source string `yaml:"source"`
	NLP    string `yaml:"nlp"`
	Chart  string `yaml:"chart"`
}

// Export configures the indicator export command.
type Export struct {
	Dir             string `yaml:"dir"`
	Format          string `yaml:"format"`
	RateLimitPerMin int    `yaml:"rate_limit_per_min"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		API: API{
			BaseURL: "http://localhost:5000/api",
			Timeout: "30s",
		},
		Playback: Playback{Interval: "1s"},
		Filters: Filters{
			Source: "covid",
			NLP:    "nn",
			Chart:  "show_sentiment_comparison",
		},
		Export: Export{
			Dir:             "data/export",
			Format:          "parquet",
			RateLimitPerMin: 600,
		},
		Logging: Logging{Level: "info", Format: "text"},
	}
}

// Timeout parses API.Timeout, falling back to 30s.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// PlayInterval parses Playback.Interval, falling back to one second.
func (c *Config) PlayInterval() time.Duration {
	d, err := time.ParseDuration(c.Playback.Interval)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path over the defaults
// and then applies environment variable overrides. A missing file is only an
// error when mustExist is set.
func Load(path string, mustExist bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist) && !mustExist:
	default:
		return nil, err
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("COVIDASH_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("COVIDASH_API_TIMEOUT"); v != "" {
		cfg.API.Timeout = v
	}

	if v := os.Getenv("COVIDASH_PLAY_INTERVAL"); v != "" {
		cfg.Playback.Interval = v
	}

	if v := os.Getenv("COVIDASH_SOURCE"); v != "" {
		cfg.Filters.Source = v
	}
	if v := os.Getenv("COVIDASH_NLP"); v != "" {
		cfg.Filters.NLP = v
	}

	if v := os.Getenv("COVIDASH_EXPORT_DIR"); v != "" {
		cfg.Export.Dir = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
