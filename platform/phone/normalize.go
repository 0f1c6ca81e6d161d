// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"
	"unicode"
)

// iddPrefix is the international dialing prefix accepted as an alternative to '+'.
const iddPrefix = "00"

// Normalize strips whitespace, hyphens, parentheses and periods from user input
// and rewrites a leading "00" dialing prefix to '+'. It never fails; the result
// may be empty. Normalizing an already normalized string returns it unchanged.
func Normalize(input string) string {
	normalized := strings.Map(func(r rune) rune {
		if isFormattingRune(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(input))

	if strings.HasPrefix(normalized, iddPrefix) {
		normalized = "+" + strings.TrimPrefix(normalized, iddPrefix)
	}

	return normalized
}

// IsInternational reports whether a normalized number carries its own calling code.
func IsInternational(normalized string) bool {
	return strings.HasPrefix(normalized, "+")
}

func isFormattingRune(r rune) bool {
	switch r {
	case '-', '(', ')', '.':
		return true
	}
	return unicode.IsSpace(r)
}
