// Package common wires shared dependencies for the regcrawl commands.
package common

import (
	"fmt"
	"path/filepath"

	"github.com/opendatamd/regcrawl/internal/ckan"
	"github.com/opendatamd/regcrawl/internal/config"
	"github.com/opendatamd/regcrawl/internal/emit"
	"github.com/opendatamd/regcrawl/internal/fetch"
	"github.com/opendatamd/regcrawl/internal/logger"
	"github.com/opendatamd/regcrawl/internal/registry"
)

// entitiesFile is the file sink output name inside the output directory.
const entitiesFile = "entities.ndjson"

// NewLogger builds the application logger from configuration.
func NewLogger(cfg *config.Config) (logger.Interface, error) {
	return logger.New(&cfg.Logger)
}

// NewCrawler builds a fully wired registry crawler from configuration.
func NewCrawler(cfg *config.Config, log logger.Interface) (*registry.Crawler, error) {
	fetcher := fetch.New(fetch.Config{
		CacheDir:  cfg.Fetch.CacheDir,
		CacheDays: cfg.Fetch.CacheDays,
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   cfg.Fetch.RequestTimeout,
	}, log.WithComponent("fetch"))

	sink, err := newSink(cfg, log)
	if err != nil {
		return nil, err
	}

	locator := ckan.NewLocator(fetcher, log.WithComponent("ckan"), cfg.Fetch.CacheDays)
	selector := ckan.NewSelector(log.WithComponent("ckan"))

	return registry.NewCrawler(registry.Config{
		CompaniesCatalogURL: cfg.Sources.CompaniesCatalogURL,
		NonprofitsURL:       cfg.Sources.NonprofitsURL,
		OutputDir:           cfg.Output.Dir,
	}, log.WithComponent("registry"), fetcher, locator, selector, sink), nil
}

// newSink selects the emission sink from configuration: Elasticsearch
// when enabled, the NDJSON file sink otherwise.
func newSink(cfg *config.Config, log logger.Interface) (emit.Emitter, error) {
	if cfg.Elasticsearch.Enabled {
		sink, err := emit.NewElasticSink(emit.ElasticConfig{
			Addresses: cfg.Elasticsearch.Addresses,
			Index:     cfg.Elasticsearch.Index,
			Username:  cfg.Elasticsearch.Username,
			Password:  cfg.Elasticsearch.Password,
			APIKey:    cfg.Elasticsearch.APIKey,
		}, log.WithComponent("elasticsearch"))
		if err != nil {
			return nil, fmt.Errorf("create elasticsearch sink: %w", err)
		}
		return sink, nil
	}

	sink, err := emit.NewFileSink(filepath.Join(cfg.Output.Dir, entitiesFile))
	if err != nil {
		return nil, fmt.Errorf("create file sink: %w", err)
	}
	return sink, nil
}
