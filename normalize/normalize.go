// Package normalize cleans the column headers and cell text scraped from
// reference pages and maps headers to canonical field names.
package normalize

import (
	"log/slog"
	"strings"
	"unicode"
)

// canonicalNames maps raw header spellings to canonical field names.
// The table is empty: headers pass through unchanged until a page kind
// needs an explicit entry. Page-specific mappings come in through config
// instead.
var canonicalNames = map[string]string{}

// Canonical returns the canonical field name for a header via exact-match
// lookup, first in the config-supplied extra map, then in the package
// table. Unmapped headers are returned unchanged.
func Canonical(header string, extra map[string]string) string {
	if name, ok := extra[header]; ok {
		return name
	}
	if name, ok := canonicalNames[header]; ok {
		return name
	}
	return header
}

// Header converts a raw column header to snake_case: lowercase, spaces,
// dashes and slashes become underscores, parentheses are dropped and
// bracketed footnote text like "[note 1]" is stripped. Idempotent.
func Header(raw string) string {
	cleaned := strings.ToLower(raw)
	cleaned = strings.ReplaceAll(cleaned, " ", "_")
	cleaned = strings.ReplaceAll(cleaned, "-", "_")
	cleaned = strings.ReplaceAll(cleaned, "/", "_")
	cleaned = strings.ReplaceAll(cleaned, ")(", "_")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")
	return StripBrackets(cleaned)
}

// StripBrackets removes bracketed segments one at a time. When the next
// closing bracket sits before the next opening bracket the scan stops and
// the remaining text is kept as-is.
func StripBrackets(s string) string {
	for strings.Contains(s, "[") && strings.Contains(s, "]") {
		open := strings.Index(s, "[")
		closing := strings.Index(s, "]")
		if closing < open {
			slog.Warn("unbalanced brackets left in place", "text", s)
			break
		}
		s = s[:open] + s[closing+1:]
	}
	return s
}

// Whitespace replaces unicode space characters (non-breaking spaces are
// common in wiki markup) with regular spaces and collapses runs into one.
func Whitespace(text string) string {
	normalized := strings.Builder{}
	for _, r := range text {
		if unicode.IsSpace(r) {
			normalized.WriteRune(' ')
		} else {
			normalized.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(normalized.String()), " ")
}
