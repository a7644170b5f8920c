package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet-report/internal/domain"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"TIMESHEET_API_URL", "TIMESHEET_API_KEY", "HTTP_TIMEOUT", "REPORT_MODE",
		"REPORT_POSITIVE_ONLY", "CHART_OUTPUT", "TABLE_OUTPUT", "CHART_SEED", "MYSQL_DSN",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TIMESHEET_API_KEY", "k")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.API.URL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, domain.ModeChart, cfg.Report.Mode)
	assert.Equal(t, "output.png", cfg.Report.ChartPath)
	assert.Equal(t, "output.html", cfg.Report.TablePath)
	assert.Nil(t, cfg.Report.PositiveOnly)
	assert.Empty(t, cfg.MySQL.DSN)
}

func TestLoad_RequiresKey(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	assert.EqualError(t, err, "TIMESHEET_API_KEY is required")
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TIMESHEET_API_KEY", "k")
	t.Setenv("REPORT_MODE", "table")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("CHART_SEED", "42")
	t.Setenv("REPORT_POSITIVE_ONLY", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, domain.ModeTable, cfg.Report.Mode)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, int64(42), cfg.Report.Seed)
	assert.True(t, cfg.PositiveOnly(domain.ModeTable))
}

func TestLoad_InvalidValues(t *testing.T) {
	for key, val := range map[string]string{
		"REPORT_MODE":          "pdf",
		"HTTP_TIMEOUT":         "soon",
		"CHART_SEED":           "abc",
		"REPORT_POSITIVE_ONLY": "maybe",
	} {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("TIMESHEET_API_KEY", "k")
			t.Setenv(key, val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestPositiveOnly_ModeDefaults(t *testing.T) {
	var cfg Config
	assert.True(t, cfg.PositiveOnly(domain.ModeChart))
	assert.False(t, cfg.PositiveOnly(domain.ModeTable))
}
