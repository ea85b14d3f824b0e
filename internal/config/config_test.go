package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harryrigby/financial-dashboard/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "^GSPC", cfg.DataSource.MarketSymbol)
	assert.Equal(t, 15*time.Second, cfg.DataSource.FetchTimeout)
	assert.Equal(t, 30, cfg.Analytics.HistogramBins)
	assert.Equal(t, model.Period6Month, cfg.DefaultPeriod())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
data_source:
  fetch_timeout: 5s
analytics:
  default_period: "1 Year"
  risk_free_rate: 0.04
database:
  sqlite_path: runs.db
`)
	t.Setenv("SQLITE_PATH", "/tmp/override.db")
	t.Setenv("FETCH_TIMEOUT", "7s")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 7*time.Second, cfg.DataSource.FetchTimeout)
	assert.Equal(t, model.Period1Year, cfg.DefaultPeriod())
	assert.Equal(t, 0.04, cfg.Analytics.RiskFreeRate)
	assert.Equal(t, "/tmp/override.db", cfg.Database.SQLitePath)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Server.Port = "http" }},
		{"period", func(c *Config) { c.Analytics.DefaultPeriod = "3 weeks" }},
		{"bins", func(c *Config) { c.Analytics.HistogramBins = -1 }},
		{"risk free", func(c *Config) { c.Analytics.RiskFreeRate = 4 }},
		{"retention", func(c *Config) { c.Database.RetentionDays = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
