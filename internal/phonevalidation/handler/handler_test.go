package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"checkout_phone_backend/internal/phonevalidation/formatter"
	"checkout_phone_backend/internal/phonevalidation/policy"
	"checkout_phone_backend/internal/phonevalidation/transport"
	"checkout_phone_backend/internal/phonevalidation/validation"
	"checkout_phone_backend/platform/phone"
	"checkout_phone_backend/platform/validator"
)

type staticPolicy struct{ p policy.Policy }

func (s staticPolicy) Current(context.Context) policy.Policy { return s.p }

func newRouter(p policy.Policy) *gin.Engine {
	gin.SetMode(gin.TestMode)
	plan := phone.NewLibphonenumber()
	h := New(validation.NewEngine(plan), formatter.New(plan), staticPolicy{p: p}, validator.New(), nil)

	r := gin.New()
	r.POST("/phone/validate", h.Validate)
	return r
}

func post(t *testing.T, r *gin.Engine, body string) (int, transport.ValidatePhoneResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/phone/validate", strings.NewReader(body)))
	var resp transport.ValidatePhoneResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return rec.Code, resp
}

func TestValidateReturnsAllFormats(t *testing.T) {
	p := policy.Default()
	p.OutputFormat = phone.StyleNational
	r := newRouter(p)

	status, resp := post(t, r, `{"phone":"(22) 410-05-00","country":"pl"}`)
	if status != http.StatusOK || !resp.Valid {
		t.Fatalf("expected valid number, got %d %+v", status, resp)
	}
	if resp.Region != "PL" || resp.CountryCode != 48 || resp.Formatted != "22 410 05 00" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Formats["E164"] != "+48224100500" || resp.Formats["INTERNATIONAL"] != "+48 22 410 05 00" {
		t.Fatalf("unexpected formats %v", resp.Formats)
	}
}

func TestValidateReportsCode(t *testing.T) {
	p := policy.Default()
	p.Mode = policy.ModeInternationalOnly
	r := newRouter(p)

	status, resp := post(t, r, `{"phone":"224100500"}`)
	if status != http.StatusOK || resp.Valid || resp.Code != "missing_international_prefix" {
		t.Fatalf("unexpected response %d %+v", status, resp)
	}
}

func TestValidateRequiresPhone(t *testing.T) {
	r := newRouter(policy.Default())
	if status, _ := post(t, r, `{"country":"PL"}`); status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestValidateAcceptsEverythingWhenDisabled(t *testing.T) {
	p := policy.Default()
	p.Enabled = false
	r := newRouter(p)

	status, resp := post(t, r, `{"phone":"not a phone","country":"PL"}`)
	if status != http.StatusOK || !resp.Valid || resp.Code != "" || len(resp.Formats) != 0 {
		t.Fatalf("expected unclassified valid response, got %d %+v", status, resp)
	}

	status, resp = post(t, r, `{"phone":"+48224100500"}`)
	if status != http.StatusOK || !resp.Valid || resp.Formats["E164"] != "+48224100500" {
		t.Fatalf("expected formats for a parseable number, got %d %+v", status, resp)
	}
}
