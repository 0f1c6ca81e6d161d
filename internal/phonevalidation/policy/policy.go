// Package policy defines the configuration snapshot consumed by phone validation
// and formatting. Callers build a Policy from persisted settings and pass it into
// every call; nothing in the validation core reads settings on its own.
package policy

import (
	"fmt"
	"strings"

	"checkout_phone_backend/platform/phone"
)

// Mode controls whether national numbers are accepted.
type Mode string

const (
	// ModeDefaultAndInternational accepts national numbers (parsed against the
	// region hint or default region) as well as '+' prefixed numbers.
	ModeDefaultAndInternational Mode = "default_and_international"
	// ModeInternationalOnly requires a '+' or "00" prefix.
	ModeInternationalOnly Mode = "international_only"
)

// IsKnown reports whether m is a supported mode.
func (m Mode) IsKnown() bool {
	return m == ModeDefaultAndInternational || m == ModeInternationalOnly
}

// ParseMode maps configuration text to a Mode.
func ParseMode(value string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(value)))
	if !mode.IsKnown() {
		return "", fmt.Errorf("unknown validation mode %q", value)
	}
	return mode, nil
}

// Defaults applied when no settings have been stored yet.
const (
	DefaultRegion       = "PL"
	DefaultMode         = ModeDefaultAndInternational
	DefaultOutputFormat = phone.StyleE164
)

// Policy is an immutable snapshot of the phone validation settings.
type Policy struct {
	Enabled       bool        `json:"enabled"`
	DefaultRegion string      `json:"defaultRegion"`
	Mode          Mode        `json:"validationMode"`
	OutputFormat  phone.Style `json:"outputFormat"`
	FormatOnSave  bool        `json:"formatOnSave"`
}

// Default returns the policy used before any settings are saved.
func Default() Policy {
	return Policy{
		Enabled:       true,
		DefaultRegion: DefaultRegion,
		Mode:          DefaultMode,
		OutputFormat:  DefaultOutputFormat,
		FormatOnSave:  true,
	}
}

// Normalized returns a copy with canonical casing and unknown enum values
// replaced by their defaults.
func (p Policy) Normalized() Policy {
	p.DefaultRegion = phone.NormalizeRegion(p.DefaultRegion)
	if p.DefaultRegion == "" {
		p.DefaultRegion = DefaultRegion
	}
	if mode, err := ParseMode(string(p.Mode)); err == nil {
		p.Mode = mode
	} else {
		p.Mode = DefaultMode
	}
	p.OutputFormat = phone.ParseStyle(string(p.OutputFormat))
	return p
}

// Validate checks that every field holds a supported value.
func (p Policy) Validate() error {
	if !phone.IsSupportedRegion(p.DefaultRegion) {
		return fmt.Errorf("unsupported default region %q", p.DefaultRegion)
	}
	if !p.Mode.IsKnown() {
		return fmt.Errorf("unknown validation mode %q", p.Mode)
	}
	if !p.OutputFormat.IsKnown() {
		return fmt.Errorf("unknown output format %q", p.OutputFormat)
	}
	return nil
}

// RequiresInternationalPrefix reports whether national numbers are rejected.
func (p Policy) RequiresInternationalPrefix() bool {
	return p.Mode == ModeInternationalOnly
}

// ResolveRegion picks the region used to parse a national number: a non-empty
// hint wins over the default region.
func (p Policy) ResolveRegion(hint string) string {
	if region := phone.NormalizeRegion(hint); region != "" {
		return region
	}
	return phone.NormalizeRegion(p.DefaultRegion)
}
