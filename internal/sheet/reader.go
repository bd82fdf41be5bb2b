// Package sheet reads spreadsheet data through excelize, exposing rows
// either as raw cell sequences or as header-labeled mappings with
// configurable skip-rows and header lookup.
package sheet

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

// ErrNoHeader is returned when a sheet is exhausted before a header row
// was found.
var ErrNoHeader = errors.New("sheet has no header row")

// Row is a header-labeled mapping of a single sheet row.
type Row map[string]string

// Pop removes a column from the row and returns its value. Missing
// columns yield "".
func (r Row) Pop(key string) string {
	value := r[key]
	delete(r, key)
	return value
}

// Options configures header-labeled row parsing.
type Options struct {
	// SkipRows is the number of leading rows to discard before the
	// header row.
	SkipRows int
	// Headers maps raw header cell text to canonical column keys.
	// Headers not present in the map are keyed by their slugified text.
	Headers map[string]string
}

// ParseRows streams the rows of a sheet as header-labeled mappings,
// calling fn for each data row. Rows shorter than the header are padded
// with empty cells; surplus cells are dropped.
func ParseRows(f *excelize.File, sheetName string, opts Options, fn func(Row) error) error {
	rows, err := f.Rows(sheetName)
	if err != nil {
		return fmt.Errorf("open sheet %q: %w", sheetName, err)
	}
	defer rows.Close()

	var keys []string
	skip := opts.SkipRows
	for rows.Next() {
		cells, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		if skip > 0 {
			skip--
			continue
		}
		if keys == nil {
			keys = headerKeys(cells, opts.Headers)
			continue
		}
		row := make(Row, len(keys))
		for i, key := range keys {
			if key == "" {
				continue
			}
			if i < len(cells) {
				row[key] = strings.TrimSpace(cells[i])
			} else {
				row[key] = ""
			}
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	if err := rows.Error(); err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}
	if keys == nil {
		return ErrNoHeader
	}
	return nil
}

// headerKeys resolves raw header cells to canonical column keys.
func headerKeys(cells []string, lookup map[string]string) []string {
	keys := make([]string, len(cells))
	for i, cell := range cells {
		raw := strings.TrimSpace(cell)
		if raw == "" {
			continue
		}
		if key, ok := lookup[raw]; ok {
			keys[i] = key
			continue
		}
		keys[i] = SlugifyHeader(raw)
	}
	return keys
}

// SlugifyHeader turns a raw header cell into a snake_case column key.
func SlugifyHeader(raw string) string {
	var b strings.Builder
	lastSep := true
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSep = false
			continue
		}
		if !lastSep {
			b.WriteRune('_')
			lastSep = true
		}
	}
	return strings.TrimRight(b.String(), "_")
}
