package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendatamd/regcrawl/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Sources: config.SourcesConfig{
			CompaniesCatalogURL: "https://date.example.md/dataset/companies",
			NonprofitsURL:       "https://dataset.example.md/dataset/nonprofits",
		},
		Output: config.OutputConfig{Dir: "data"},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	// Validate fills fetch defaults.
	assert.Equal(t, config.DefaultUserAgent, cfg.Fetch.UserAgent)
	assert.Equal(t, config.DefaultRequestTimeout, cfg.Fetch.RequestTimeout)
	assert.Equal(t, config.DefaultCacheDays, cfg.Fetch.CacheDays)
}

func TestValidateKeepsExplicitValues(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Fetch.UserAgent = "custom-agent"
	cfg.Fetch.RequestTimeout = time.Minute
	cfg.Fetch.CacheDays = 7

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "custom-agent", cfg.Fetch.UserAgent)
	assert.Equal(t, time.Minute, cfg.Fetch.RequestTimeout)
	assert.Equal(t, 7, cfg.Fetch.CacheDays)
}

func TestValidateMissingSources(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*config.Config)
		expected error
	}{
		{"missing companies url", func(c *config.Config) { c.Sources.CompaniesCatalogURL = "" }, config.ErrMissingCompaniesURL},
		{"missing nonprofits url", func(c *config.Config) { c.Sources.NonprofitsURL = "" }, config.ErrMissingNonprofitsURL},
		{"missing output dir", func(c *config.Config) { c.Output.Dir = "" }, config.ErrMissingOutputDir},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.expected)
		})
	}
}
