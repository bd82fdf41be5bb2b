package entity

import (
	"crypto/sha1"
	"encoding/hex"
	"io"
	"strings"
	"unicode"
)

// idPrefix namespaces all generated identifiers.
const idPrefix = "md"

// MakeID derives a stable identifier from the given key parts. Each part
// is slugified before hashing so that identifiers are insensitive to
// casing and punctuation noise. Returns "" when no part carries any
// usable content; callers must treat that as a missing identity.
func MakeID(parts ...string) string {
	digest := sha1.New()
	hashed := false
	for _, part := range parts {
		slug := slugify(part)
		if slug == "" {
			continue
		}
		io.WriteString(digest, slug)
		io.WriteString(digest, ".")
		hashed = true
	}
	if !hashed {
		return ""
	}
	return idPrefix + "-" + hex.EncodeToString(digest.Sum(nil))
}

// slugify lowercases a string and collapses runs of non-alphanumeric
// characters into single dashes.
func slugify(value string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
