package phone

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/nyaruka/phonenumbers"
)

// ParseErrorKind classifies why the numbering plan refused to parse a number.
type ParseErrorKind int

const (
	// ParseErrUnknown covers any failure the numbering plan did not classify.
	ParseErrUnknown ParseErrorKind = iota
	// ParseErrInvalidCountryCode means the leading digits match no calling code.
	ParseErrInvalidCountryCode
	// ParseErrNotANumber means the input does not look like a phone number.
	ParseErrNotANumber
	// ParseErrTooShortAfterIDD means too few digits follow the '+' or IDD prefix.
	ParseErrTooShortAfterIDD
	// ParseErrTooShortNSN means the national significant number is too short.
	ParseErrTooShortNSN
	// ParseErrTooLong means the input has more digits than any plan allows.
	ParseErrTooLong
)

func (k ParseErrorKind) String() string {
	switch k {
	case ParseErrInvalidCountryCode:
		return "invalid country code"
	case ParseErrNotANumber:
		return "not a number"
	case ParseErrTooShortAfterIDD:
		return "too short after idd"
	case ParseErrTooShortNSN:
		return "too short nsn"
	case ParseErrTooLong:
		return "too long"
	default:
		return "unknown"
	}
}

// ParseError is returned by NumberingPlan.Parse.
type ParseError struct {
	Kind ParseErrorKind
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse phone number: %s: %v", e.Kind, e.Err)
	}
	return "parse phone number: " + e.Kind.String()
}

// Unwrap returns the numbering plan's own error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseErrorKindOf extracts the classification from err.
// Errors that are not a *ParseError classify as ParseErrUnknown.
func ParseErrorKindOf(err error) ParseErrorKind {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Kind
	}
	return ParseErrUnknown
}

// Number is a parsed phone number. It is produced by a NumberingPlan and is
// only meaningful to the plan that produced it.
type Number struct {
	countryCode    int32
	nationalNumber uint64
	region         string
	parsed         *phonenumbers.PhoneNumber
}

// NewNumber builds a Number from its parts. NumberingPlan implementations
// other than Libphonenumber use it to hand out numbers.
func NewNumber(countryCode int32, nationalNumber uint64, region string) Number {
	return Number{countryCode: countryCode, nationalNumber: nationalNumber, region: region}
}

// CountryCode returns the calling code, e.g. 48.
func (n Number) CountryCode() int32 { return n.countryCode }

// NationalNumber returns the national significant number as digits.
func (n Number) NationalNumber() uint64 { return n.nationalNumber }

// Region returns the ISO region the number belongs to, if known.
func (n Number) Region() string { return n.region }

// IsZero reports whether n was never populated.
func (n Number) IsZero() bool {
	return n.countryCode == 0 && n.nationalNumber == 0
}

// Equal compares two numbers by calling code and national number.
func (n Number) Equal(other Number) bool {
	return n.countryCode == other.countryCode && n.nationalNumber == other.nationalNumber
}

// String renders the digits for debugging; use a NumberingPlan to format for people.
func (n Number) String() string {
	if n.IsZero() {
		return ""
	}
	return "+" + strconv.FormatInt(int64(n.countryCode), 10) + strconv.FormatUint(n.nationalNumber, 10)
}

// NumberingPlan is the source of truth for calling codes, per-region patterns
// and digit grouping. Implementations must be safe for concurrent use.
type NumberingPlan interface {
	// Parse reads normalized text. region is an ISO code, or empty when the
	// text starts with '+'. Failures are *ParseError.
	Parse(text, region string) (Number, error)
	// IsValidNumber applies the region's length and pattern rules.
	IsValidNumber(n Number) bool
	// Format renders n in the given style.
	Format(n Number, style Style) string
}

// Libphonenumber implements NumberingPlan with github.com/nyaruka/phonenumbers.
// Its metadata is loaded once per process and is read-only afterwards.
type Libphonenumber struct{}

// NewLibphonenumber returns the default numbering plan.
func NewLibphonenumber() *Libphonenumber {
	return &Libphonenumber{}
}

// Compile-time check that Libphonenumber implements NumberingPlan.
var _ NumberingPlan = (*Libphonenumber)(nil)

// Parse implements NumberingPlan.
func (l *Libphonenumber) Parse(text, region string) (Number, error) {
	parsed, err := phonenumbers.Parse(text, region)
	if err != nil {
		return Number{}, &ParseError{Kind: classifyLibError(err), Err: err}
	}

	return Number{
		countryCode:    parsed.GetCountryCode(),
		nationalNumber: parsed.GetNationalNumber(),
		region:         phonenumbers.GetRegionCodeForNumber(parsed),
		parsed:         parsed,
	}, nil
}

// IsValidNumber implements NumberingPlan.
func (l *Libphonenumber) IsValidNumber(n Number) bool {
	parsed, ok := l.underlying(n)
	if !ok {
		return false
	}
	return phonenumbers.IsValidNumber(parsed)
}

// Format implements NumberingPlan. Unknown styles render as E.164.
func (l *Libphonenumber) Format(n Number, style Style) string {
	parsed, ok := l.underlying(n)
	if !ok {
		return n.String()
	}

	switch style {
	case StyleInternational:
		return phonenumbers.Format(parsed, phonenumbers.INTERNATIONAL)
	case StyleNational:
		return phonenumbers.Format(parsed, phonenumbers.NATIONAL)
	default:
		return phonenumbers.Format(parsed, phonenumbers.E164)
	}
}

// underlying returns the library representation of n, re-parsing numbers
// that were built with NewNumber.
func (l *Libphonenumber) underlying(n Number) (*phonenumbers.PhoneNumber, bool) {
	if n.parsed != nil {
		return n.parsed, true
	}
	if n.IsZero() {
		return nil, false
	}
	parsed, err := phonenumbers.Parse(n.String(), "")
	if err != nil {
		return nil, false
	}
	return parsed, true
}

// CountryCodeForRegion returns the calling code of an ISO region, or 0.
func (l *Libphonenumber) CountryCodeForRegion(region string) int {
	return phonenumbers.GetCountryCodeForRegion(region)
}

// SupportedRegions returns every ISO region the plan has metadata for, sorted.
func (l *Libphonenumber) SupportedRegions() []string {
	supported := phonenumbers.GetSupportedRegions()
	regions := make([]string, 0, len(supported))
	for region := range supported {
		regions = append(regions, region)
	}
	slices.Sort(regions)
	return regions
}

func classifyLibError(err error) ParseErrorKind {
	switch {
	case errors.Is(err, phonenumbers.ErrInvalidCountryCode):
		return ParseErrInvalidCountryCode
	case errors.Is(err, phonenumbers.ErrNotANumber):
		return ParseErrNotANumber
	case errors.Is(err, phonenumbers.ErrTooShortAfterIDD):
		return ParseErrTooShortAfterIDD
	case errors.Is(err, phonenumbers.ErrTooShortNSN):
		return ParseErrTooShortNSN
	case errors.Is(err, phonenumbers.ErrNumTooLong):
		return ParseErrTooLong
	default:
		return ParseErrUnknown
	}
}
