// Package config loads and validates the crawler configuration from
// config files, environment variables and defaults via viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/opendatamd/regcrawl/internal/logger"
)

// Default configuration values.
const (
	DefaultUserAgent      = "Mozilla/5.0 (compatible; regcrawl/1.0)"
	DefaultRequestTimeout = 30 * time.Second
	DefaultCacheDays      = 1
	DefaultProgressEvery  = 10000
)

// Sentinel errors for invalid configuration.
var (
	ErrMissingCompaniesURL  = errors.New("sources.companies_catalog_url is required")
	ErrMissingNonprofitsURL = errors.New("sources.nonprofits_url is required")
	ErrMissingOutputDir     = errors.New("output.dir is required")
)

// AppConfig holds application level settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// FetchConfig configures the HTTP fetcher and its disk cache.
type FetchConfig struct {
	CacheDir       string        `mapstructure:"cache_dir"`
	CacheDays      int           `mapstructure:"cache_days"`
	UserAgent      string        `mapstructure:"user_agent"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// SourcesConfig holds the landing page URLs of the two registry sources.
type SourcesConfig struct {
	CompaniesCatalogURL string `mapstructure:"companies_catalog_url"`
	NonprofitsURL       string `mapstructure:"nonprofits_url"`
}

// OutputConfig configures the file emission sink and resource exports.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// ElasticsearchConfig configures the optional Elasticsearch sink.
type ElasticsearchConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Index     string   `mapstructure:"index"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	APIKey    string   `mapstructure:"api_key"`
}

// ScheduleConfig configures the periodic crawl schedule.
type ScheduleConfig struct {
	// Cron is a standard 5-field cron expression.
	Cron string `mapstructure:"cron"`
}

// Config is the root configuration for the crawler.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Logger        logger.Config       `mapstructure:"logger"`
	Fetch         FetchConfig         `mapstructure:"fetch"`
	Sources       SourcesConfig       `mapstructure:"sources"`
	Output        OutputConfig        `mapstructure:"output"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Schedule      ScheduleConfig      `mapstructure:"schedule"`
}

// Load unmarshals the current viper state into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := viper.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable for a crawl run.
func (c *Config) Validate() error {
	if c.Sources.CompaniesCatalogURL == "" {
		return ErrMissingCompaniesURL
	}
	if c.Sources.NonprofitsURL == "" {
		return ErrMissingNonprofitsURL
	}
	if c.Output.Dir == "" {
		return ErrMissingOutputDir
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = DefaultUserAgent
	}
	if c.Fetch.RequestTimeout <= 0 {
		c.Fetch.RequestTimeout = DefaultRequestTimeout
	}
	if c.Fetch.CacheDays <= 0 {
		c.Fetch.CacheDays = DefaultCacheDays
	}
	return nil
}

// SetDefaults registers default values on the global viper instance.
func SetDefaults() {
	viper.SetDefault("app", map[string]any{
		"name":        "regcrawl",
		"environment": "production",
		"debug":       false,
	})
	viper.SetDefault("logger", map[string]any{
		"level":        "info",
		"development":  false,
		"encoding":     "json",
		"output_paths": []string{"stdout"},
	})
	viper.SetDefault("fetch", map[string]any{
		"cache_dir":       ".cache",
		"cache_days":      DefaultCacheDays,
		"user_agent":      DefaultUserAgent,
		"request_timeout": DefaultRequestTimeout.String(),
	})
	viper.SetDefault("sources", map[string]any{
		"companies_catalog_url": "https://date.gov.md/ckan/ro/dataset/11736-date-din-registrul-de-stat-al-unitatilor-de-drept",
		"nonprofits_url":        "https://dataset.gov.md/dataset/18516-date-din-registrul-de-stat-al-unitatilor-de-drept-privind-organizatiile-necomerciale",
	})
	viper.SetDefault("output", map[string]any{
		"dir": "data",
	})
	viper.SetDefault("elasticsearch", map[string]any{
		"enabled":   false,
		"addresses": []string{"http://127.0.0.1:9200"},
		"index":     "md-registry",
	})
	viper.SetDefault("schedule", map[string]any{
		"cron": "0 4 * * *",
	})
}
