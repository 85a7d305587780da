// Package slug derives URL-safe identifiers from titles and builds the
// "<slug>-<shortId>" path segments used by the public catalog.
package slug

import (
	"regexp"
	"strings"
)

// ShortIDLength is the number of leading id characters appended to a slug.
const ShortIDLength = 8

var (
	// Anything that is not a lowercase letter, digit, whitespace or dash.
	// RE2's \s is ASCII only, so Unicode separators, \v and the BOM are
	// listed explicitly.
	disallowedRe = regexp.MustCompile(`[^a-z0-9\s\p{Z}\v\x{feff}-]`)
	// Runs of whitespace become a single dash.
	whitespaceRe = regexp.MustCompile(`[\s\p{Z}\v\x{feff}]+`)
	// Runs of dashes collapse to one.
	multipleDashRe = regexp.MustCompile(`-+`)

	validRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Generate converts a title to its canonical slug.
//
//	"The Magic Forest!"      → "the-magic-forest"
//	"  Owls   &  Otters  "   → "owls-otters"
//	"--Book -- Two--"        → "book-two"
//	"Owl\u00a0Moon"          → "owl-moon"
//
// Generate is idempotent: Generate(Generate(s)) == Generate(s).
func Generate(title string) string {
	s := strings.ToLower(title)
	s = disallowedRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = whitespaceRe.ReplaceAllString(s, "-")
	s = multipleDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Valid reports whether s is already a canonical, non-empty slug.
func Valid(s string) bool {
	return validRe.MatchString(s)
}

// ShortID returns the first ShortIDLength characters of id, or all of id
// when it is shorter.
func ShortID(id string) string {
	r := []rune(id)
	if len(r) <= ShortIDLength {
		return id
	}
	return string(r[:ShortIDLength])
}

// WithShortID joins a slug and the short form of id: "magic-forest-abcdefgh".
func WithShortID(slug, id string) string {
	return slug + "-" + ShortID(id)
}

// SplitShortID splits a "<slug>-<shortId>" segment at its last dash.
// ok is false when the segment has no slug part or no id part.
func SplitShortID(segment string) (slug, shortID string, ok bool) {
	i := strings.LastIndex(segment, "-")
	if i <= 0 || i == len(segment)-1 {
		return "", "", false
	}
	return segment[:i], segment[i+1:], true
}
