// Package text provides the string normalization and similarity scoring
// primitives the index and automatch engines are built on. Everything here
// is pure: no I/O, no shared mutable state beyond the opt-in memo cache.
package text

import (
	"regexp"
	"strings"
)

var (
	// extensionRe matches a trailing file extension (".pdf", ".tar").
	extensionRe = regexp.MustCompile(`\.[^/.]+$`)
	// prefixRe matches a leading word followed by a hyphen ("scan-", "DOC-").
	prefixRe = regexp.MustCompile(`^[A-Za-z]+-`)
	// dateRe matches an embedded YYYY-MM-DD date stamp.
	dateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	// versionRe matches a _v<digits> version suffix ("_v2", "_v10").
	versionRe = regexp.MustCompile(`_v\d+$`)
	// separatorRuns collapses underscore/hyphen runs to a single space.
	separatorRuns = regexp.MustCompile(`[_\-]+`)
	// spaceRuns collapses whitespace runs to a single space.
	spaceRuns = regexp.MustCompile(`\s+`)
)

// Clean normalizes a name for comparison. Rules, applied in order:
//  1. Strip trailing extension
//  2. Strip leading word- prefix
//  3. Strip embedded YYYY-MM-DD date
//  4. Strip _v<digits> version suffix
//  5. Collapse _/- runs and whitespace runs to single spaces
//  6. Trim and lowercase
//
// Extension-strip must run first so a multi-segment name like
// "scan-report.v2.pdf" loses only ".pdf" before the prefix rule fires.
func Clean(text string) string {
	s := extensionRe.ReplaceAllString(text, "")
	s = prefixRe.ReplaceAllString(s, "")
	s = dateRe.ReplaceAllString(s, "")
	s = versionRe.ReplaceAllString(s, "")
	s = separatorRuns.ReplaceAllString(s, " ")
	s = spaceRuns.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}

// keyTermPatterns are tried in priority order; the first pattern that
// yields any match wins. Structured identifiers beat prose.
var keyTermPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[A-Za-z]+-\d+-\d+`), // LETTERS-digits-digits: "APPENDIX-2-001"
	regexp.MustCompile(`[A-Za-z]+-\d+`),     // LETTERS-digits: "EXH-42"
	regexp.MustCompile(`\d{3,}`),            // bare number runs: "20240115"
}

// StripExtension removes a trailing file extension, if any. Lighter than
// Clean: the rest of the name is untouched.
func StripExtension(name string) string {
	return extensionRe.ReplaceAllString(name, "")
}

// KeyTerms extracts the structured identifiers from a name, joined by
// spaces. A name with no identifier at all falls back to Clean(text), so
// the result is always usable as a comparison string.
func KeyTerms(text string) string {
	for _, re := range keyTermPatterns {
		if matches := re.FindAllString(text, -1); len(matches) > 0 {
			return strings.Join(matches, " ")
		}
	}
	return Clean(text)
}
