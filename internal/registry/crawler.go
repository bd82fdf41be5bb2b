package registry

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/opendatamd/regcrawl/internal/ckan"
	"github.com/opendatamd/regcrawl/internal/emit"
	"github.com/opendatamd/regcrawl/internal/entity"
	"github.com/opendatamd/regcrawl/internal/fetch"
	"github.com/opendatamd/regcrawl/internal/logger"
	"github.com/opendatamd/regcrawl/internal/sheet"
)

// nonprofitsPageCacheDays bounds how long the nonprofits listing page is
// served from cache before re-fetching.
const nonprofitsPageCacheDays = 1

// nonprofitsTitle is the export title of the raw nonprofits workbook.
const nonprofitsTitle = "Moldovan Registry of Non-Profit Organizations"

// Fetcher is the subset of the fetch client used by the crawler.
type Fetcher interface {
	ckan.HTMLFetcher
	FetchResource(ctx context.Context, name, rawURL string) (string, error)
}

// Summary describes one finished crawl run.
type Summary struct {
	RunID    string
	Started  time.Time
	Duration time.Duration
	Counts   map[entity.Schema]int
	Total    int
}

// Config holds the source URLs and output location for a crawl run.
type Config struct {
	CompaniesCatalogURL string
	NonprofitsURL       string
	OutputDir           string
}

// Crawler sequences the two registry sources: locate the data file,
// fetch it, parse it row by row, emit the entity graph.
type Crawler struct {
	cfg        Config
	log        logger.Interface
	fetcher    Fetcher
	locator    *ckan.Locator
	selector   *ckan.Selector
	emitter    *emit.CountingEmitter
	companies  *CompanyParser
	nonprofits *NonprofitParser
}

// NewCrawler wires a crawler from its collaborators.
func NewCrawler(cfg Config, log logger.Interface, fetcher Fetcher, locator *ckan.Locator, selector *ckan.Selector, sink emit.Emitter) *Crawler {
	counting := emit.NewCounting(sink)
	return &Crawler{
		cfg:        cfg,
		log:        log,
		fetcher:    fetcher,
		locator:    locator,
		selector:   selector,
		emitter:    counting,
		companies:  NewCompanyParser(log, counting),
		nonprofits: NewNonprofitParser(log, counting),
	}
}

// Run crawls both sources sequentially and returns a run summary.
// Structural failures on either source abort the whole run.
func (c *Crawler) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.NewString()
	started := time.Now()
	log := c.log.With("run_id", runID)
	log.Info("Starting crawl run")

	if err := c.crawlCompanies(ctx, log); err != nil {
		return nil, fmt.Errorf("companies source: %w", err)
	}
	if err := c.crawlNonprofits(ctx, log, runID); err != nil {
		return nil, fmt.Errorf("nonprofits source: %w", err)
	}

	summary := &Summary{
		RunID:    runID,
		Started:  started,
		Duration: time.Since(started),
		Counts:   c.emitter.Counts(),
		Total:    c.emitter.Total(),
	}
	log.Info("Crawl run finished",
		"entities", summary.Total,
		"duration", summary.Duration,
	)
	return summary, nil
}

// crawlCompanies locates the companies workbook through the catalog
// anchor chain and parses it.
func (c *Crawler) crawlCompanies(ctx context.Context, log logger.Interface) error {
	dataURL, err := c.locator.DataURL(ctx, c.cfg.CompaniesCatalogURL)
	if err != nil {
		return err
	}
	log.Info("Located companies data file", "url", dataURL)

	path, err := c.fetcher.FetchResource(ctx, "companies.xlsx", dataURL)
	if err != nil {
		return err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("open companies workbook: %w", err)
	}
	defer f.Close()

	return c.companies.ParseWorkbook(ctx, f)
}

// crawlNonprofits picks the most recent dated download link from the
// nonprofits listing page, exports the raw workbook and parses it.
func (c *Crawler) crawlNonprofits(ctx context.Context, log logger.Interface, runID string) error {
	doc, err := c.fetcher.FetchHTML(ctx, c.cfg.NonprofitsURL, nonprofitsPageCacheDays)
	if err != nil {
		return fmt.Errorf("fetch nonprofits page: %w", err)
	}

	dataURL, err := c.selector.MostRecentLink(doc)
	if err != nil {
		return err
	}
	dataURL, err = resolveURL(c.cfg.NonprofitsURL, dataURL)
	if err != nil {
		return err
	}
	log.Info("Located nonprofits data file", "url", dataURL)

	path, err := c.fetcher.FetchResource(ctx, "nonprofits.xlsx", dataURL)
	if err != nil {
		return err
	}
	if err := emit.ExportResource(c.cfg.OutputDir, path, emit.MimeXLSX, nonprofitsTitle, runID); err != nil {
		return err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("open nonprofits workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != nonprofitsSheetName {
		return fmt.Errorf("unexpected nonprofits workbook structure: sheets %v", sheets)
	}

	opts := sheet.Options{
		SkipRows: nonprofitsSkipRows,
		Headers:  nonprofitHeaders,
	}
	return sheet.ParseRows(f, nonprofitsSheetName, opts, func(row sheet.Row) error {
		return c.nonprofits.ParseRow(ctx, row)
	})
}

// resolveURL resolves a possibly relative href against a base page URL.
func resolveURL(baseURL, href string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse data URL: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

// Close flushes the underlying emission sink.
func (c *Crawler) Close() error {
	return c.emitter.Close()
}

var _ Fetcher = (*fetch.Client)(nil)
