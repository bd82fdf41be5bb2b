// Package ckan navigates CKAN-style open data catalog pages to locate
// downloadable dataset files.
package ckan

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/opendatamd/regcrawl/internal/logger"
)

// Unrecoverable catalog structure errors. These indicate a configuration
// or upstream page format change and abort the run.
var (
	ErrNoResourceAnchor = errors.New("no resource URL on data catalog page")
	ErrNoActionAnchor   = errors.New("no data URL on data resource page")
)

// HTMLFetcher fetches a page and parses it as HTML.
type HTMLFetcher interface {
	FetchHTML(ctx context.Context, rawURL string, cacheDays int) (*goquery.Document, error)
}

// Locator follows the fixed anchor chain from a catalog landing page to
// the final downloadable file URL.
type Locator struct {
	fetcher   HTMLFetcher
	log       logger.Interface
	cacheDays int
}

// NewLocator creates a Locator.
func NewLocator(fetcher HTMLFetcher, log logger.Interface, cacheDays int) *Locator {
	return &Locator{
		fetcher:   fetcher,
		log:       log,
		cacheDays: cacheDays,
	}
}

// DataURL resolves the catalog landing page to the final data file URL:
// catalog page -> resource page -> download action.
func (l *Locator) DataURL(ctx context.Context, catalogURL string) (string, error) {
	doc, err := l.fetcher.FetchHTML(ctx, catalogURL, l.cacheDays)
	if err != nil {
		return "", fmt.Errorf("fetch catalog page: %w", err)
	}

	resourceURL, err := resourcePageURL(doc, catalogURL)
	if err != nil {
		return "", err
	}
	l.log.Debug("Located resource page", "url", resourceURL)

	resourceDoc, err := l.fetcher.FetchHTML(ctx, resourceURL, l.cacheDays)
	if err != nil {
		return "", fmt.Errorf("fetch resource page: %w", err)
	}
	return actionURL(resourceDoc)
}

// resourcePageURL finds the resource-item anchor on the catalog page and
// resolves its href against the catalog URL. With several resource items
// on the page, the last one wins.
func resourcePageURL(doc *goquery.Document, catalogURL string) (string, error) {
	base, err := url.Parse(catalogURL)
	if err != nil {
		return "", fmt.Errorf("parse catalog URL: %w", err)
	}

	var resourceURL string
	doc.Find("li.resource-item a").Each(func(_ int, anchor *goquery.Selection) {
		href := strings.TrimSpace(anchor.AttrOr("href", ""))
		if href == "" {
			return
		}
		ref, parseErr := url.Parse(href)
		if parseErr != nil {
			return
		}
		resourceURL = base.ResolveReference(ref).String()
	})
	if resourceURL == "" {
		return "", ErrNoResourceAnchor
	}
	return resourceURL, nil
}

// actionURL returns the href of the first anchor inside the actions
// container on the resource page.
func actionURL(doc *goquery.Document) (string, error) {
	href := strings.TrimSpace(doc.Find("div.actions a").First().AttrOr("href", ""))
	if href == "" {
		return "", ErrNoActionAnchor
	}
	return href, nil
}
