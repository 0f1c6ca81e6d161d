package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindNotFound:     http.StatusNotFound,
		KindValidation:   http.StatusBadRequest,
		KindBadRequest:   http.StatusBadRequest,
		KindConflict:     http.StatusConflict,
		KindForbidden:    http.StatusForbidden,
		KindUnauthorized: http.StatusUnauthorized,
		KindInternal:     http.StatusInternalServerError,
		KindUnavailable:  http.StatusServiceUnavailable,
		KindUnknown:      http.StatusBadRequest,
	}

	for kind, want := range cases {
		if got := New(kind, "x").HTTPStatus(); got != want {
			t.Fatalf("kind %d: expected %d, got %d", kind, want, got)
		}
	}
}

func TestGetKindUnwrapsWrappedErrors(t *testing.T) {
	base := Validation("billing_phone is not a valid phone number.").WithCode("not_valid")
	wrapped := fmt.Errorf("checkout: %w", base)

	if !Is(wrapped, KindValidation) {
		t.Fatal("expected wrapped error to keep validation kind")
	}
	var target *Error
	if !errors.As(wrapped, &target) || target.Code != "not_valid" {
		t.Fatalf("expected code to survive wrapping, got %+v", target)
	}
}

func TestErrorIncludesOp(t *testing.T) {
	err := Internal("boom").WithOp("settings.Update")
	if err.Error() != "settings.Update: boom" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Fatal("expected plain errors to report KindUnknown")
	}
}
