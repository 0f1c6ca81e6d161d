package phone

import "strings"

// Style selects how a number is rendered.
type Style string

const (
	// StyleE164 renders "+48224100500".
	StyleE164 Style = "E164"
	// StyleInternational renders "+48 22 410 05 00".
	StyleInternational Style = "INTERNATIONAL"
	// StyleNational renders "22 410 05 00".
	StyleNational Style = "NATIONAL"
)

// Styles lists every supported style in display order.
func Styles() []Style {
	return []Style{StyleE164, StyleInternational, StyleNational}
}

// IsKnown reports whether s is one of the supported styles.
func (s Style) IsKnown() bool {
	switch s {
	case StyleE164, StyleInternational, StyleNational:
		return true
	default:
		return false
	}
}

// ParseStyle maps user or configuration text to a Style.
// Unrecognized values fall back to E164.
func ParseStyle(value string) Style {
	style := Style(strings.ToUpper(strings.TrimSpace(value)))
	if style.IsKnown() {
		return style
	}
	return StyleE164
}
