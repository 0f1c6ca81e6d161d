// Package formatter renders validated phone numbers in the configured style.
package formatter

import (
	"checkout_phone_backend/internal/phonevalidation/policy"
	"checkout_phone_backend/platform/phone"
)

// Formatter delegates digit grouping to the numbering plan.
type Formatter struct {
	plan phone.NumberingPlan
}

// New creates a Formatter backed by plan.
func New(plan phone.NumberingPlan) *Formatter {
	return &Formatter{plan: plan}
}

// Format renders number in style. Unrecognized styles render as E.164.
func (f *Formatter) Format(number phone.Number, style phone.Style) string {
	if !style.IsKnown() {
		style = phone.StyleE164
	}
	return f.plan.Format(number, style)
}

// FormatWithPolicy renders number in the policy's output style.
func (f *Formatter) FormatWithPolicy(number phone.Number, p policy.Policy) string {
	return f.Format(number, p.OutputFormat)
}

// All renders number in every supported style.
func (f *Formatter) All(number phone.Number) map[phone.Style]string {
	formats := make(map[phone.Style]string, len(phone.Styles()))
	for _, style := range phone.Styles() {
		formats[style] = f.Format(number, style)
	}
	return formats
}
