// Package sanitize provides text sanitization for customer-submitted input.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// htmlTagRegex matches HTML tags
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
)

// maxFieldRunes bounds a single checkout text field before it reaches parsing.
const maxFieldRunes = 64

// StripHTML removes all HTML tags from a string, making it safe for text-only display.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&quot;", "\"")
	result = strings.ReplaceAll(result, "&#39;", "'")
	// Re-strip after entity decode to catch encoded tags
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Field cleans a short checkout field such as a phone number or country code:
// markup and control characters are dropped and the result is truncated.
// Ordinary whitespace, including non-breaking spaces, is preserved.
func Field(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, StripHTML(s))

	runes := []rune(cleaned)
	if len(runes) > maxFieldRunes {
		runes = runes[:maxFieldRunes]
	}
	return string(runes)
}
