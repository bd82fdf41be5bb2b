package ckan

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendatamd/regcrawl/internal/logger"
)

const catalogPageHTML = `<html><body>
<ul>
  <li class="resource-item"><a href="/ckan/resource/first">First</a></li>
  <li class="resource-item"><a href="/ckan/resource/second">Second</a></li>
</ul>
</body></html>`

const resourcePageHTML = `<html><body>
<div class="actions">
  <a href="https://files.example.md/data.xlsx">Download</a>
  <a href="https://files.example.md/other.xlsx">Other</a>
</div>
</body></html>`

const emptyPageHTML = `<html><body><p>Nothing here.</p></body></html>`

// fakeFetcher serves pre-parsed documents by URL.
type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) FetchHTML(_ context.Context, rawURL string, _ int) (*goquery.Document, error) {
	page, ok := f.pages[rawURL]
	if !ok {
		return nil, fmt.Errorf("no page for %s", rawURL)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(page))
}

func TestLocatorDataURL(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://date.example.md/dataset/companies": catalogPageHTML,
		"https://date.example.md/ckan/resource/second": resourcePageHTML,
	}}
	locator := NewLocator(fetcher, logger.NewNoOp(), 1)

	dataURL, err := locator.DataURL(context.Background(), "https://date.example.md/dataset/companies")
	require.NoError(t, err)

	// With several resource items on the page, the last one wins.
	assert.Equal(t, "https://files.example.md/data.xlsx", dataURL)
}

func TestLocatorNoResourceAnchor(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://date.example.md/dataset/companies": emptyPageHTML,
	}}
	locator := NewLocator(fetcher, logger.NewNoOp(), 1)

	_, err := locator.DataURL(context.Background(), "https://date.example.md/dataset/companies")
	assert.ErrorIs(t, err, ErrNoResourceAnchor)
}

func TestLocatorNoActionAnchor(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://date.example.md/dataset/companies": catalogPageHTML,
		"https://date.example.md/ckan/resource/second": emptyPageHTML,
	}}
	locator := NewLocator(fetcher, logger.NewNoOp(), 1)

	_, err := locator.DataURL(context.Background(), "https://date.example.md/dataset/companies")
	assert.ErrorIs(t, err, ErrNoActionAnchor)
}
