package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"checkout_phone_backend/internal/checkout/messages"
	"checkout_phone_backend/internal/checkout/service"
	"checkout_phone_backend/internal/checkout/transport"
	"checkout_phone_backend/internal/orders/repository"
	"checkout_phone_backend/internal/phonevalidation/formatter"
	"checkout_phone_backend/internal/phonevalidation/policy"
	"checkout_phone_backend/internal/phonevalidation/validation"
	"checkout_phone_backend/platform/httpkit"
	"checkout_phone_backend/platform/logger"
	"checkout_phone_backend/platform/phone"
	"checkout_phone_backend/platform/validator"
)

type staticPolicy struct{ p policy.Policy }

func (s staticPolicy) Current(context.Context) policy.Policy { return s.p }

type createOnlyOrders struct {
	created []repository.CreateParams
}

func (o *createOnlyOrders) Create(_ context.Context, p repository.CreateParams) (repository.Order, error) {
	o.created = append(o.created, p)
	return repository.Order{
		ID:             uuid.New(),
		Reference:      p.Reference,
		BillingCountry: p.BillingCountry,
		BillingPhone:   p.BillingPhone,
		ShippingPhone:  p.ShippingPhone,
		Locale:         p.Locale,
	}, nil
}

func (o *createOnlyOrders) ListAfter(context.Context, uuid.UUID, int) ([]repository.Order, error) {
	return nil, nil
}

func (o *createOnlyOrders) UpdatePhones(context.Context, []repository.PhoneUpdate) error { return nil }

func newRouter(t *testing.T, orders *createOnlyOrders) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog, err := messages.Load("en")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	plan := phone.NewLibphonenumber()
	svc := service.New(validation.NewEngine(plan), formatter.New(plan), staticPolicy{p: policy.Default()}, orders, catalog, nil, logger.NewDiscard(), nil)
	h := New(svc, catalog, validator.New())

	r := gin.New()
	r.POST("/checkout/phone-validation", h.ValidatePhones)
	r.POST("/checkout/orders", h.PlaceOrder)
	return r
}

func TestValidatePhonesReportsFieldErrors(t *testing.T) {
	r := newRouter(t, &createOnlyOrders{})

	body := `{"billingPhone":"+48 22 410 05 00","shippingPhone":"12345","shippingCountry":"PL"}`
	req := httptest.NewRequest(http.MethodPost, "/checkout/phone-validation", strings.NewReader(body))
	req.Header.Set("Accept-Language", "de-DE")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp transport.ValidationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Valid || resp.Locale != "de" || len(resp.Errors) != 1 || resp.Errors[0].Field != "shipping_phone" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if !strings.HasPrefix(resp.Errors[0].Message, "Telefon (Lieferadresse)") {
		t.Fatalf("expected German field label, got %q", resp.Errors[0].Message)
	}
}

func TestPlaceOrderCreatesOrder(t *testing.T) {
	orders := &createOnlyOrders{}
	r := newRouter(t, orders)

	body := `{"reference":"ORD-100","billingPhone":"22 410 05 00","billingCountry":"pl"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout/orders", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(orders.created) != 1 || orders.created[0].BillingPhone != "+48224100500" {
		t.Fatalf("expected E.164 billing phone to be stored, got %+v", orders.created)
	}
}

func TestPlaceOrderRejectsInvalidPhoneWithStructuredBody(t *testing.T) {
	orders := &createOnlyOrders{}
	r := newRouter(t, orders)

	body := `{"reference":"ORD-101","billingPhone":"+999123456","locale":"en"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout/orders", strings.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		httpkit.ErrorResponse
		Details []transport.FieldError `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != "invalid_phone" || len(resp.Details) != 1 {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if got := resp.Details[0]; got.Field != "billing_phone" || got.Code != "invalid_country_code" {
		t.Fatalf("unexpected field error %+v", got)
	}
	if len(orders.created) != 0 {
		t.Fatal("rejected order must not be stored")
	}
}

func TestPlaceOrderRequiresReference(t *testing.T) {
	r := newRouter(t, &createOnlyOrders{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout/orders", strings.NewReader(`{"billingPhone":"+48224100500"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
