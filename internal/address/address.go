// Package address builds normalized address records from the free-form
// address fields of the registry exports.
package address

import (
	"strings"

	"github.com/opendatamd/regcrawl/internal/entity"
)

// Address is a normalized address record.
type Address struct {
	// Full is the complete address string as published by the registry.
	Full string
	// Place is the administrative unit code or locality.
	Place string
}

// Make builds an Address from the full address string and an optional
// administrative place token.
func Make(full, place string) Address {
	return Address{
		Full:  strings.TrimSpace(full),
		Place: strings.TrimSpace(place),
	}
}

// Display renders the address as a single display string.
func (a Address) Display() string {
	parts := make([]string, 0, 2)
	if a.Full != "" {
		parts = append(parts, a.Full)
	}
	if a.Place != "" {
		parts = append(parts, a.Place)
	}
	return strings.Join(parts, ", ")
}

// Copy applies the address onto an entity.
func Copy(e *entity.Entity, a Address) {
	e.Add("address", a.Display())
}
