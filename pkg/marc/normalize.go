// Package marc provides text cleanup and contributor formatting for catalog
// metadata that originates in MARC records. Raw field values carry subfield
// markers, typographic quotes, and multi-part title separators that must be
// normalized before they are rendered into any public output shape.
package marc

import (
	"regexp"
	"strings"
)

var (
	reSubfield  = regexp.MustCompile(`\s*\$[a-z]\s*`)
	reCurlySing = regexp.MustCompile("[‘’]")
	reCurlyDbl  = regexp.MustCompile("[“”]")
	reTitleSep  = regexp.MustCompile(`\s*[;:]\s*`)
	reUpdated   = regexp.MustCompile(`(?is)\s*updated?:\s*.*$`)
)

// StripSubfields replaces MARC subfield markers ($a, $b, ...) with a single
// space, so the boundary between subfields survives as word spacing. Any
// whitespace hugging a marker collapses into that one space.
func StripSubfields(s string) string {
	if s == "" {
		return ""
	}
	s = reSubfield.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeText straightens typographic quotes, collapses ;/: title separators
// into a single ": ", and trims trailing separator characters.
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	s = reCurlySing.ReplaceAllString(s, "'")
	s = reCurlyDbl.ReplaceAllString(s, `"`)
	s = reTitleSep.ReplaceAllString(s, ": ")
	s = strings.TrimRight(s, ": ")
	return strings.TrimSpace(s)
}

// StripUpdated truncates a credits value at the first "Updated:" marker
// (case-insensitive), dropping the marker and everything after it.
func StripUpdated(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(reUpdated.ReplaceAllString(s, ""))
}

// Clean applies the full normalization pipeline for a human-text field.
// Clean is idempotent: Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	return NormalizeText(StripSubfields(s))
}

// CleanCredits normalizes a credits field. Credits additionally lose the
// trailing "Updated:" revision note carried over from the source record.
func CleanCredits(s string) string {
	return StripUpdated(Clean(s))
}

// CleanAll normalizes every element of a slice of human-text values,
// dropping elements that normalize to the empty string.
func CleanAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if cleaned := Clean(v); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
