package validation

import (
	"testing"

	"checkout_phone_backend/platform/phone"
)

func TestResultHoldsExactlyOneOutcome(t *testing.T) {
	success := Success(phone.NewNumber(48, 224100500, "PL"))
	if !success.IsValid() {
		t.Fatal("expected success to be valid")
	}
	if _, ok := success.ErrorKind(); ok {
		t.Fatal("success must not expose an error kind")
	}

	failure := Failure(KindTooLong)
	if failure.IsValid() {
		t.Fatal("expected failure to be invalid")
	}
	if _, ok := failure.Number(); ok {
		t.Fatal("failure must not expose a number")
	}
}

func TestResultDegenerateInputsBecomeUnknownFailures(t *testing.T) {
	cases := map[string]Result{
		"zero value":   {},
		"zero number":  Success(phone.Number{}),
		"unknown kind": Failure(Kind("bogus")),
		"empty kind":   Failure(""),
	}

	for name, result := range cases {
		kind, ok := result.ErrorKind()
		if !ok || kind != KindUnknownParseFailure {
			t.Fatalf("%s: expected unknown_parse_failure, got %q (failed=%v)", name, kind, ok)
		}
		if result.IsValid() {
			t.Fatalf("%s: expected invalid result", name)
		}
	}
}

func TestResultEqual(t *testing.T) {
	a := Success(phone.NewNumber(48, 224100500, "PL"))
	b := Success(phone.NewNumber(48, 224100500, ""))
	c := Success(phone.NewNumber(1, 2024561111, "US"))

	if !a.Equal(b) {
		t.Fatal("expected numbers with equal digits to be equal")
	}
	if a.Equal(c) {
		t.Fatal("expected different numbers to differ")
	}
	if !Failure(KindNotValid).Equal(Failure(KindNotValid)) {
		t.Fatal("expected equal failures to be equal")
	}
	if Failure(KindNotValid).Equal(Failure(KindTooLong)) {
		t.Fatal("expected different failures to differ")
	}
	if a.Equal(Failure(KindNotValid)) {
		t.Fatal("success must not equal failure")
	}
}
