package validation

import "checkout_phone_backend/platform/phone"

// Result is the outcome of a single validation. Exactly one of the parsed
// number or the failure kind is set. The zero Result is an unknown parse failure.
type Result struct {
	number phone.Number
	kind   Kind
}

// Success wraps a valid number. A zero number cannot be a success and is
// reported as an unknown parse failure instead.
func Success(number phone.Number) Result {
	if number.IsZero() {
		return Failure(KindUnknownParseFailure)
	}
	return Result{number: number}
}

// Failure wraps a classification. Unknown kinds are recorded as unknown parse failures.
func Failure(kind Kind) Result {
	if !kind.IsKnown() {
		kind = KindUnknownParseFailure
	}
	return Result{kind: kind}
}

// IsValid reports whether validation succeeded.
func (r Result) IsValid() bool {
	return r.kind == "" && !r.number.IsZero()
}

// ErrorKind returns the failure classification, if any.
func (r Result) ErrorKind() (Kind, bool) {
	if r.IsValid() {
		return "", false
	}
	if r.kind == "" {
		return KindUnknownParseFailure, true
	}
	return r.kind, true
}

// Number returns the parsed number of a successful result.
func (r Result) Number() (phone.Number, bool) {
	if !r.IsValid() {
		return phone.Number{}, false
	}
	return r.number, true
}

// Equal reports whether two results carry the same classification or the same number.
func (r Result) Equal(other Result) bool {
	if r.IsValid() != other.IsValid() {
		return false
	}
	if !r.IsValid() {
		kind, _ := r.ErrorKind()
		otherKind, _ := other.ErrorKind()
		return kind == otherKind
	}
	return r.number.Equal(other.number)
}

// String is used in logs and test failures.
func (r Result) String() string {
	if r.IsValid() {
		return "valid " + r.number.String()
	}
	kind, _ := r.ErrorKind()
	return "invalid: " + string(kind)
}
