// Package answers holds the normalization helpers that sit between raw
// speech transcripts and structured form values: whitespace cleanup, skip
// token detection, spoken-email and spoken-date coercion, and phonetic
// matching of answers against enumerated option sets.
package answers

import (
	"strings"
	"time"
)

// skipTokens are the exact (case-insensitive) utterances that skip an
// optional question.
var skipTokens = map[string]struct{}{
	"skip":    {},
	"skip it": {},
	"pass":    {},
}

// Normalize trims a raw transcript. Speech providers tend to pad segment
// boundaries with spaces; nothing beyond trimming is assumed here so that
// per-question Parse functions see the answer as spoken.
func Normalize(raw string) string {
	return strings.TrimSpace(raw)
}

// IsSkipToken reports whether text is one of the recognised skip utterances.
// Matching is case-insensitive and exact — "skip the question" is an answer,
// not a skip.
func IsSkipToken(text string) bool {
	_, ok := skipTokens[strings.ToLower(text)]
	return ok
}

// NormalizeEmail converts a spoken email address to its written form:
// "test at example dot com" becomes "test@example.com". Already-written
// addresses pass through unchanged. The result is lower-cased, since
// recognition casing is arbitrary.
func NormalizeEmail(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return ""
	}
	fields := strings.Fields(s)
	var b strings.Builder
	for _, f := range fields {
		switch f {
		case "at":
			b.WriteString("@")
		case "dot":
			b.WriteString(".")
		case "dash", "hyphen":
			b.WriteString("-")
		case "underscore":
			b.WriteString("_")
		case "plus":
			b.WriteString("+")
		default:
			b.WriteString(f)
		}
	}
	return b.String()
}

// dateLayouts are the written-date forms accepted by ParseDate, tried in
// order. Speech recognizers typically render spoken dates in one of these.
var dateLayouts = []string{
	"January 2 2006",
	"January 2, 2006",
	"2 January 2006",
	"2006-01-02",
	"01/02/2006",
	"January 2006",
	"2006",
}

// ParseDate coerces a spoken or written date to ISO "2006-01-02" form, the
// format the form schema stores. When no layout matches, the input is
// returned unchanged so validation can reject it with a meaningful message.
func ParseDate(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return ""
	}
	// Strip ordinal suffixes ("June 3rd 2024" → "June 3 2024").
	for _, suffix := range []string{"st", "nd", "rd", "th"} {
		s = stripOrdinal(s, suffix)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return text
}

// stripOrdinal removes an ordinal suffix from day numbers: "3rd" → "3".
// Only digits followed by the suffix and a word boundary are rewritten.
func stripOrdinal(s, suffix string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		trimmed := strings.TrimSuffix(f, suffix)
		if trimmed != f && trimmed != "" && isDigits(trimmed) {
			fields[i] = trimmed
		}
	}
	return strings.Join(fields, " ")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
