package ckan

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendatamd/regcrawl/internal/logger"
	"github.com/opendatamd/regcrawl/internal/testhelpers"
)

// listingPage renders a resource listing with the given hrefs.
func listingPage(t *testing.T, hrefs ...string) *goquery.Document {
	t.Helper()

	var b strings.Builder
	b.WriteString("<html><body><ul>")
	for _, href := range hrefs {
		fmt.Fprintf(&b, `<li class="resource-item"><a class="resource-url-analytics" href=%q>x</a></li>`, href)
	}
	b.WriteString("</ul></body></html>")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(b.String()))
	require.NoError(t, err)
	return doc
}

func selectorAt(log logger.Interface, now string) *Selector {
	s := NewSelector(log)
	s.now = func() time.Time {
		t, _ := time.Parse("2006-01-02", now)
		return t
	}
	return s
}

func TestMostRecentLinkPicksMaximumDate(t *testing.T) {
	t.Parallel()

	doc := listingPage(t,
		"https://files.example.md/resources/list.2025.01.10.xlsx",
		"https://files.example.md/resources/list.2025.01.20.xlsx",
		"https://files.example.md/resources/list.2024.12.01.xlsx",
	)
	s := selectorAt(logger.NewNoOp(), "2025-02-01")

	href, err := s.MostRecentLink(doc)
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.md/resources/list.2025.01.20.xlsx", href)
}

func TestMostRecentLinkStaleData(t *testing.T) {
	t.Parallel()

	doc := listingPage(t,
		"https://files.example.md/resources/list.2025.01.15.xlsx",
		"https://files.example.md/resources/list.2024.07.02.xlsx",
	)
	s := selectorAt(logger.NewNoOp(), "2025-03-01")

	_, err := s.MostRecentLink(doc)
	assert.ErrorIs(t, err, ErrStaleLink)
}

func TestMostRecentLinkSkipsStaleExclusions(t *testing.T) {
	t.Parallel()

	// The excluded links carry the maximum dates but must never win.
	doc := listingPage(t,
		"https://files.example.md/resources/list.17.06.2024.xlsx",
		"https://files.example.md/resources/2019-06/old.2025.02.01.xlsx",
		"https://files.example.md/resources/list.2025.01.20.xlsx",
	)
	s := selectorAt(logger.NewNoOp(), "2025-02-01")

	href, err := s.MostRecentLink(doc)
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.md/resources/list.2025.01.20.xlsx", href)
}

func TestMostRecentLinkWarnsOnUndatedLink(t *testing.T) {
	t.Parallel()

	log := testhelpers.NewRecordingLogger()
	doc := listingPage(t,
		"https://files.example.md/resources/list-latest.xlsx",
		"https://files.example.md/resources/list.2025.01.20.xlsx",
	)
	s := selectorAt(log, "2025-02-01")

	href, err := s.MostRecentLink(doc)
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.md/resources/list.2025.01.20.xlsx", href)
	assert.Len(t, log.Messages("warn"), 1)
}

func TestMostRecentLinkIgnoresNonXLSX(t *testing.T) {
	t.Parallel()

	doc := listingPage(t,
		"https://files.example.md/resources/list.2025.01.20.csv",
	)
	s := selectorAt(logger.NewNoOp(), "2025-02-01")

	_, err := s.MostRecentLink(doc)
	assert.ErrorIs(t, err, ErrNoDatedLinks)
}
