package ckan

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/opendatamd/regcrawl/internal/logger"
)

// maxLinkAge guards against silently picking a stale link when the
// expected periodic refresh has not happened upstream.
const maxLinkAge = 30 * 24 * time.Hour

// Recency selection errors.
var (
	ErrNoDatedLinks = errors.New("no dated download links on page")
	ErrStaleLink    = errors.New("most recent download link is older than 30 days")
)

// Known outdated entries that do not fit the general date pattern. These
// are data-specific exclusions; generalizing them would change selection
// behavior for historical data.
var (
	staleLinkLiteral = "17.06.2024"
	staleYearPattern = regexp.MustCompile(`resources/2019-\d{2}`)
)

// linkDatePattern extracts an embedded YYYY.MM.DD date from an href.
var linkDatePattern = regexp.MustCompile(`(\d{4})[.](\d{2})[.](\d{2})`)

// Selector picks the most recently dated .xlsx download link from a
// catalog resource listing.
type Selector struct {
	log logger.Interface

	// now is injectable for recency tests.
	now func() time.Time
}

// NewSelector creates a Selector.
func NewSelector(log logger.Interface) *Selector {
	return &Selector{
		log: log,
		now: time.Now,
	}
}

type datedLink struct {
	date time.Time
	href string
}

// MostRecentLink scans the resource-item download anchors of the parsed
// page and returns the href with the maximum embedded date. Links
// matching the hardcoded stale exclusions are never selected. Fails if
// the winning date is more than 30 days in the past.
func (s *Selector) MostRecentLink(doc *goquery.Document) (string, error) {
	var dated []datedLink
	doc.Find("li.resource-item a.resource-url-analytics").Each(func(_ int, anchor *goquery.Selection) {
		href := strings.TrimSpace(anchor.AttrOr("href", ""))
		if href == "" || !strings.Contains(href, ".xlsx") {
			return
		}
		if strings.Contains(href, staleLinkLiteral) || staleYearPattern.MatchString(href) {
			return
		}
		match := linkDatePattern.FindString(href)
		if match == "" {
			s.log.Warn("Download link does not contain a date", "href", href)
			return
		}
		date, err := time.Parse("2006.01.02", match)
		if err != nil {
			s.log.Warn("Download link has unparseable date", "href", href, "date", match)
			return
		}
		dated = append(dated, datedLink{date: date, href: href})
	})
	if len(dated) == 0 {
		return "", ErrNoDatedLinks
	}

	latest := dated[0]
	for _, link := range dated[1:] {
		if link.date.After(latest.date) {
			latest = link
		}
	}
	if !latest.date.After(s.now().Add(-maxLinkAge)) {
		return "", fmt.Errorf("%w: latest is %s", ErrStaleLink, latest.date.Format("2006-01-02"))
	}
	return latest.href, nil
}
