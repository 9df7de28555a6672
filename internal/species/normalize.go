package species

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticStripper decomposes to NFD, removes combining marks and
// recomposes, so "junípero" and "junipero" normalize identically.
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases a name, strips diacritics and collapses internal
// whitespace. Used on both the query and catalog side so matching is
// insensitive to accents and spacing.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if stripped, _, err := transform.String(diacriticStripper, s); err == nil {
		s = stripped
	}
	return strings.Join(strings.Fields(s), " ")
}

// firstToken returns the first whitespace-delimited token of s.
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
