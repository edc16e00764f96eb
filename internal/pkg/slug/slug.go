// Package slug derives URL-safe identifiers from post titles. Titles are
// frequently Thai, so the allowed alphabet keeps the Thai script block
// alongside ASCII word characters instead of transliterating.
package slug

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// disallowed matches anything outside word characters, whitespace,
	// the Thai block (U+0E00–U+0E7F), and hyphens.
	disallowed = regexp.MustCompile(`[^\w\s\x{0E00}-\x{0E7F}-]`)
	whitespace = regexp.MustCompile(`\s+`)
	hyphenRuns = regexp.MustCompile(`-{2,}`)
)

// Derive converts a free-text title into a slug candidate. The result may be
// empty when the title contains no allowed characters; callers must treat
// that as a validation failure rather than store an empty identifier.
func Derive(title string) string {
	s := norm.NFC.String(title)
	s = strings.ToLower(strings.TrimSpace(s))
	s = disallowed.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Decode recovers a slug transmitted percent-encoded in a URL path. Invalid
// escapes fall back to the raw value so a lookup can still be attempted.
func Decode(raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}
