package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"timesheet-report/internal/domain"
)

const DefaultAPIURL = "https://rc-vault-fap-live-1.azurewebsites.net/api/gettimeentries"

// Config holds environment-driven configuration.
type Config struct {
	API struct {
		URL     string
		Key     string        // sent as the code query parameter
		Timeout time.Duration // default: 30s
	}
	Report struct {
		Mode         domain.ReportMode // chart (default) or table
		PositiveOnly *bool             // nil: decided by mode
		ChartPath    string
		TablePath    string
		Seed         int64 // 0: seeded from the clock
	}
	MySQL struct {
		DSN string // empty disables the archive
	}
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config

	cfg.API.URL = getenv("TIMESHEET_API_URL", DefaultAPIURL)
	cfg.API.Key = os.Getenv("TIMESHEET_API_KEY")
	if cfg.API.Key == "" {
		return cfg, errors.New("TIMESHEET_API_KEY is required")
	}
	cfg.API.Timeout = 30 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return cfg, errors.New("HTTP_TIMEOUT must be a non-negative duration")
		}
		cfg.API.Timeout = d
	}

	cfg.Report.Mode = domain.ReportMode(getenv("REPORT_MODE", string(domain.ModeChart)))
	if !cfg.Report.Mode.Valid() {
		return cfg, fmt.Errorf("REPORT_MODE must be chart or table, got %q", cfg.Report.Mode)
	}
	if v := os.Getenv("REPORT_POSITIVE_ONLY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errors.New("REPORT_POSITIVE_ONLY must be a boolean")
		}
		cfg.Report.PositiveOnly = &b
	}
	cfg.Report.ChartPath = getenv("CHART_OUTPUT", "output.png")
	cfg.Report.TablePath = getenv("TABLE_OUTPUT", "output.html")
	if v := os.Getenv("CHART_SEED"); v != "" {
		s, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, errors.New("CHART_SEED must be an integer")
		}
		cfg.Report.Seed = s
	}

	cfg.MySQL.DSN = os.Getenv("MYSQL_DSN")

	return cfg, nil
}

// PositiveOnly reports whether non-positive totals are dropped for mode. The
// chart drops them, the table keeps them, unless REPORT_POSITIVE_ONLY is set.
func (c Config) PositiveOnly(mode domain.ReportMode) bool {
	if c.Report.PositiveOnly != nil {
		return *c.Report.PositiveOnly
	}
	return mode == domain.ModeChart
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
