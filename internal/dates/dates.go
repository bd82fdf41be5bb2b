// Package dates normalizes the date formats found in the registry
// exports onto entities. Parsing is tolerant: an unparseable value is
// simply not applied.
package dates

import (
	"strings"
	"time"

	"github.com/opendatamd/regcrawl/internal/entity"
)

// formats lists the date layouts observed in the source spreadsheets,
// tried in order.
var formats = []string{
	"2006-01-02",
	"02.01.2006",
	"02.01.06",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"01-02-06",
	"2006",
}

// Parse attempts to parse a raw date string against the known layouts.
func Parse(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range formats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Apply parses a raw date value and adds it to the entity property in
// ISO form. Values that do not parse are silently skipped.
func Apply(e *entity.Entity, prop, raw string) {
	t, ok := Parse(raw)
	if !ok {
		return
	}
	if len(strings.TrimSpace(raw)) == 4 {
		e.Add(prop, t.Format("2006"))
		return
	}
	e.Add(prop, t.Format("2006-01-02"))
}
