// Package fetch downloads source pages and data files over HTTP with an
// on-disk cache.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/opendatamd/regcrawl/internal/logger"
)

// Transport tuning defaults.
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
	defaultTLSHandshakeTimeout = 10 * time.Second
)

// hoursPerDay converts cache-day settings to durations.
const hoursPerDay = 24

// Config configures a fetch client.
type Config struct {
	// CacheDir is the root directory for downloaded files and cached pages.
	CacheDir string
	// CacheDays is the default freshness window for cached downloads.
	CacheDays int
	// UserAgent is sent on every request.
	UserAgent string
	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

// Client fetches resources and HTML documents with caching.
type Client struct {
	httpClient *http.Client
	cacheDir   string
	cacheDays  int
	userAgent  string
	log        logger.Interface

	// now is injectable for cache freshness tests.
	now func() time.Time
}

// New creates a fetch client.
func New(cfg Config, log logger.Interface) *Client {
	transport := &http.Transport{
		MaxIdleConns:        defaultMaxIdleConns,
		MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
		IdleConnTimeout:     defaultIdleConnTimeout,
		TLSHandshakeTimeout: defaultTLSHandshakeTimeout,
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		cacheDir:  cfg.CacheDir,
		cacheDays: cfg.CacheDays,
		userAgent: cfg.UserAgent,
		log:       log,
		now:       time.Now,
	}
}

// FetchResource downloads a file to the cache directory under the given
// name and returns its local path. A previously downloaded file within
// the default freshness window is reused.
func (c *Client) FetchResource(ctx context.Context, name, rawURL string) (string, error) {
	path := filepath.Join(c.cacheDir, "resources", name)
	if c.fresh(path, c.cacheDays) {
		c.log.Debug("Using cached resource", "name", name, "path", path)
		return path, nil
	}
	if err := c.download(ctx, rawURL, path); err != nil {
		return "", err
	}
	c.log.Info("Fetched resource", "name", name, "url", rawURL)
	return path, nil
}

// FetchHTML fetches a page, caching it for cacheDays, and parses it into
// a goquery document.
func (c *Client) FetchHTML(ctx context.Context, rawURL string, cacheDays int) (*goquery.Document, error) {
	digest := sha256.Sum256([]byte(rawURL))
	path := filepath.Join(c.cacheDir, "pages", hex.EncodeToString(digest[:])+".html")
	if !c.fresh(path, cacheDays) {
		if err := c.download(ctx, rawURL, path); err != nil {
			return nil, err
		}
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cached page: %w", err)
	}
	defer fh.Close()

	doc, err := goquery.NewDocumentFromReader(fh)
	if err != nil {
		return nil, fmt.Errorf("parse html from %s: %w", rawURL, err)
	}
	return doc, nil
}

// fresh reports whether a cached file exists and is younger than the
// given number of days.
func (c *Client) fresh(path string, cacheDays int) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	maxAge := time.Duration(cacheDays) * hoursPerDay * time.Hour
	return c.now().Sub(info.ModTime()) < maxAge
}

// download performs a GET request and writes the body to path via a
// temporary file.
func (c *Client) download(ctx context.Context, rawURL, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status code %d", rawURL, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("move download into place: %w", err)
	}
	return nil
}
