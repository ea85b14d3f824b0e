package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/harryrigby/financial-dashboard/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port         string        `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		RateLimit    int           `yaml:"rate_limit"` // requests per minute per client
	} `yaml:"server"`
	DataSource struct {
		BaseURL           string        `yaml:"base_url"`
		APIKey            string        `yaml:"api_key"`
		MarketSymbol      string        `yaml:"market_symbol"`
		FetchTimeout      time.Duration `yaml:"fetch_timeout"`
		RequestsPerSecond float64       `yaml:"requests_per_second"`
	} `yaml:"data_source"`
	Listing struct {
		URL         string `yaml:"url"`
		File        string `yaml:"file"`
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"listing"`
	Analytics struct {
		DefaultPeriod string  `yaml:"default_period"`
		RiskFreeRate  float64 `yaml:"risk_free_rate"`
		HistogramBins int     `yaml:"histogram_bins"`
	} `yaml:"analytics"`
	Database struct {
		SQLitePath    string `yaml:"sqlite_path"`
		RetentionDays int    `yaml:"retention_days"`
		PruneCron     string `yaml:"prune_cron"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads an optional .env file and the YAML config, then applies environment
// variable overrides and defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("DATA_SOURCE_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_SOURCE_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.DataSource.FetchTimeout = d
		}
	}
	if v := os.Getenv("LISTING_URL"); v != "" {
		c.Listing.URL = v
	}
	if v := os.Getenv("LISTING_FILE"); v != "" {
		c.Listing.File = v
	}
	if v := os.Getenv("RISK_FREE_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Analytics.RiskFreeRate = f
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = 60
	}
	if c.DataSource.MarketSymbol == "" {
		c.DataSource.MarketSymbol = model.MarketIndexSymbol
	}
	if c.DataSource.FetchTimeout == 0 {
		c.DataSource.FetchTimeout = 15 * time.Second
	}
	if c.DataSource.RequestsPerSecond == 0 {
		c.DataSource.RequestsPerSecond = 5
	}
	if c.Listing.RefreshCron == "" {
		c.Listing.RefreshCron = "0 0 6 * * *"
	}
	if c.Analytics.DefaultPeriod == "" {
		c.Analytics.DefaultPeriod = string(model.DefaultPeriod)
	}
	if c.Analytics.HistogramBins == 0 {
		c.Analytics.HistogramBins = 30
	}
	if c.Database.RetentionDays == 0 {
		c.Database.RetentionDays = 30
	}
	if c.Database.PruneCron == "" {
		c.Database.PruneCron = "0 30 3 * * *"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// DefaultPeriod returns the configured fallback period.
func (c *Config) DefaultPeriod() model.Period {
	return model.ResolvePeriod(c.Analytics.DefaultPeriod, model.DefaultPeriod)
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server.port must be numeric: %q", c.Server.Port)
	}
	if _, ok := model.ParsePeriod(c.Analytics.DefaultPeriod); !ok {
		return fmt.Errorf("analytics.default_period %q is not a known period", c.Analytics.DefaultPeriod)
	}
	if c.Analytics.HistogramBins < 1 {
		return fmt.Errorf("analytics.histogram_bins must be positive")
	}
	if c.Analytics.RiskFreeRate < 0 || c.Analytics.RiskFreeRate > 1 {
		return fmt.Errorf("analytics.risk_free_rate must be a decimal rate between 0 and 1")
	}
	if c.DataSource.FetchTimeout < 0 {
		return fmt.Errorf("data_source.fetch_timeout must not be negative")
	}
	if c.DataSource.RequestsPerSecond < 0 {
		return fmt.Errorf("data_source.requests_per_second must not be negative")
	}
	if c.Database.RetentionDays < 0 {
		return fmt.Errorf("database.retention_days must not be negative")
	}
	return nil
}
