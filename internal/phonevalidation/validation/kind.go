package validation

import "checkout_phone_backend/platform/phone"

// Kind classifies a failed validation. Values are stable and safe to send to
// clients as machine-readable codes.
type Kind string

const (
	// KindEmpty means nothing was left after normalization.
	KindEmpty Kind = "empty"
	// KindMissingInternationalPrefix means the policy requires '+' and it is absent.
	KindMissingInternationalPrefix Kind = "missing_international_prefix"
	// KindInvalidCountryCode means the leading digits match no calling code.
	KindInvalidCountryCode Kind = "invalid_country_code"
	// KindNotANumber means the input is not number-like.
	KindNotANumber Kind = "not_a_number"
	// KindTooShortAfterIDD means too few digits follow the international prefix.
	KindTooShortAfterIDD Kind = "too_short_after_idd"
	// KindTooShortNSN means the national significant number is too short.
	KindTooShortNSN Kind = "too_short_nsn"
	// KindTooLong means more digits than the region allows.
	KindTooLong Kind = "too_long"
	// KindUnknownParseFailure covers unclassified numbering plan failures.
	KindUnknownParseFailure Kind = "unknown_parse_failure"
	// KindNotValid means the number parsed but breaks the region's rules.
	KindNotValid Kind = "not_valid"
)

// Kinds lists every classification.
func Kinds() []Kind {
	return []Kind{
		KindEmpty,
		KindMissingInternationalPrefix,
		KindInvalidCountryCode,
		KindNotANumber,
		KindTooShortAfterIDD,
		KindTooShortNSN,
		KindTooLong,
		KindUnknownParseFailure,
		KindNotValid,
	}
}

// IsKnown reports whether k is one of the defined classifications.
func (k Kind) IsKnown() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// IsParseFailure reports whether k came from the numbering plan refusing to parse.
func (k Kind) IsParseFailure() bool {
	switch k {
	case KindInvalidCountryCode, KindNotANumber, KindTooShortAfterIDD, KindTooShortNSN, KindTooLong, KindUnknownParseFailure:
		return true
	default:
		return false
	}
}

func kindFromParseError(kind phone.ParseErrorKind) Kind {
	switch kind {
	case phone.ParseErrInvalidCountryCode:
		return KindInvalidCountryCode
	case phone.ParseErrNotANumber:
		return KindNotANumber
	case phone.ParseErrTooShortAfterIDD:
		return KindTooShortAfterIDD
	case phone.ParseErrTooShortNSN:
		return KindTooShortNSN
	case phone.ParseErrTooLong:
		return KindTooLong
	default:
		return KindUnknownParseFailure
	}
}
