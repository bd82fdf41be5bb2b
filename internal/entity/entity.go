// Package entity defines the canonical entity and relationship records
// produced by the crawler, along with identity generation and the
// unconsumed-column audit.
package entity

import (
	"encoding/json"
	"strings"
)

// Schema identifies the kind of record an Entity represents.
type Schema string

// Schemas emitted by the crawler.
const (
	Company      Schema = "Company"
	Organization Schema = "Organization"
	Person       Schema = "Person"
	LegalEntity  Schema = "LegalEntity"
	Directorship Schema = "Directorship"
	Ownership    Schema = "Ownership"
)

// Properties that hold country codes and are normalized on Add.
var countryProperties = map[string]bool{
	"country":      true,
	"jurisdiction": true,
}

// Entity is a one-shot immutable record: it is constructed in a single
// pass during row processing and never mutated after emission.
type Entity struct {
	ID     string
	Schema Schema

	properties map[string][]string
}

// New creates an empty entity of the given schema.
func New(schema Schema) *Entity {
	return &Entity{
		Schema:     schema,
		properties: make(map[string][]string),
	}
}

// Add appends a value to a property. Values are trimmed and empty values
// are dropped. Country-typed properties are normalized to ISO codes;
// values that do not resolve to a known country are dropped.
func (e *Entity) Add(prop, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if countryProperties[prop] {
		code, ok := NormalizeCountry(value)
		if !ok {
			return
		}
		value = code
	}
	for _, existing := range e.properties[prop] {
		if existing == value {
			return
		}
	}
	e.properties[prop] = append(e.properties[prop], value)
}

// Has reports whether the property holds at least one value.
func (e *Entity) Has(prop string) bool {
	return len(e.properties[prop]) > 0
}

// Get returns the values of a property.
func (e *Entity) Get(prop string) []string {
	return e.properties[prop]
}

// First returns the first value of a property, or "".
func (e *Entity) First(prop string) string {
	if values := e.properties[prop]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// Properties returns all property names with at least one value.
func (e *Entity) Properties() []string {
	names := make([]string, 0, len(e.properties))
	for name := range e.properties {
		names = append(names, name)
	}
	return names
}

// MarshalJSON serializes the entity for emission.
func (e *Entity) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         string              `json:"id"`
		Schema     Schema              `json:"schema"`
		Properties map[string][]string `json:"properties"`
	}{
		ID:         e.ID,
		Schema:     e.Schema,
		Properties: e.properties,
	})
}
