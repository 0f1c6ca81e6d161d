package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/google/uuid"

	"checkout_phone_backend/internal/checkout/messages"
	"checkout_phone_backend/internal/checkout/transport"
	"checkout_phone_backend/internal/orders/repository"
	"checkout_phone_backend/internal/phonevalidation/formatter"
	"checkout_phone_backend/internal/phonevalidation/policy"
	"checkout_phone_backend/internal/phonevalidation/validation"
	"checkout_phone_backend/platform/apperr"
	"checkout_phone_backend/platform/logger"
	"checkout_phone_backend/platform/phone"
)

type staticPolicy struct {
	p policy.Policy
}

func (s staticPolicy) Current(context.Context) policy.Policy { return s.p }

type memoryOrders struct {
	orders  []repository.Order
	updates [][]repository.PhoneUpdate
	listErr error
}

func (m *memoryOrders) Create(_ context.Context, params repository.CreateParams) (repository.Order, error) {
	order := repository.Order{
		ID:                uuid.New(),
		Reference:         params.Reference,
		BillingCountry:    params.BillingCountry,
		BillingPhone:      params.BillingPhone,
		BillingPhoneE164:  params.BillingPhoneE164,
		ShippingCountry:   params.ShippingCountry,
		ShippingPhone:     params.ShippingPhone,
		ShippingPhoneE164: params.ShippingPhoneE164,
		Locale:            params.Locale,
	}
	m.orders = append(m.orders, order)
	return order, nil
}

func (m *memoryOrders) ListAfter(_ context.Context, after uuid.UUID, limit int) ([]repository.Order, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	sorted := append([]repository.Order(nil), m.orders...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID.String() < sorted[j].ID.String() })

	page := make([]repository.Order, 0, limit)
	for _, o := range sorted {
		if o.ID.String() > after.String() && len(page) < limit {
			page = append(page, o)
		}
	}
	return page, nil
}

func (m *memoryOrders) UpdatePhones(_ context.Context, updates []repository.PhoneUpdate) error {
	m.updates = append(m.updates, updates)
	for _, u := range updates {
		for i := range m.orders {
			if m.orders[i].ID == u.ID {
				m.orders[i].BillingPhone = u.BillingPhone
				m.orders[i].BillingPhoneE164 = u.BillingPhoneE164
				m.orders[i].ShippingPhone = u.ShippingPhone
				m.orders[i].ShippingPhoneE164 = u.ShippingPhoneE164
			}
		}
	}
	return nil
}

func newTestService(t *testing.T, p policy.Policy, orders *memoryOrders) (*Service, *messages.Catalog) {
	t.Helper()
	catalog, err := messages.Load("en")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	plan := phone.NewLibphonenumber()
	svc := New(validation.NewEngine(plan), formatter.New(plan), staticPolicy{p: p}, orders, catalog, nil, logger.NewDiscard(), nil)
	return svc, catalog
}

func TestValidateCheckout(t *testing.T) {
	internationalOnly := policy.Default()
	internationalOnly.Mode = policy.ModeInternationalOnly
	disabled := policy.Default()
	disabled.Enabled = false

	cases := []struct {
		name   string
		policy policy.Policy
		req    transport.CheckoutPhonesRequest
		want   []transport.FieldError
	}{
		{
			name:   "valid national numbers with country hints",
			policy: policy.Default(),
			req:    transport.CheckoutPhonesRequest{BillingPhone: "22 410 05 00", BillingCountry: "PL", ShippingPhone: "(202) 456-1111", ShippingCountry: "us"},
		},
		{
			name:   "empty fields are skipped",
			policy: policy.Default(),
			req:    transport.CheckoutPhonesRequest{BillingPhone: "   ", ShippingPhone: ""},
		},
		{
			name:   "international only rejects national billing phone",
			policy: internationalOnly,
			req:    transport.CheckoutPhonesRequest{BillingPhone: "224100500", ShippingPhone: "+48 22 410 05 00"},
			want: []transport.FieldError{
				{Field: "billing_phone", Code: "missing_international_prefix", Message: "Billing Phone must contain country prefix."},
			},
		},
		{
			name:   "billing reported before shipping",
			policy: policy.Default(),
			req:    transport.CheckoutPhonesRequest{BillingPhone: "not a phone", ShippingPhone: "+1 123 456 7890"},
			want: []transport.FieldError{
				{Field: "billing_phone", Code: "not_a_number", Message: "Billing Phone is not a valid phone number."},
				{Field: "shipping_phone", Code: "not_valid", Message: "Shipping Phone is not a valid phone number."},
			},
		},
		{
			name:   "disabled policy accepts anything",
			policy: disabled,
			req:    transport.CheckoutPhonesRequest{BillingPhone: "nonsense", ShippingPhone: "123"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, catalog := newTestService(t, tc.policy, &memoryOrders{})
			resp := svc.ValidateCheckout(context.Background(), tc.req, catalog.Negotiate("en", ""))

			if resp.Valid != (len(tc.want) == 0) {
				t.Fatalf("expected valid=%v, got %+v", len(tc.want) == 0, resp)
			}
			if fmt.Sprint(resp.Errors) != fmt.Sprint(tc.want) && !(len(resp.Errors) == 0 && len(tc.want) == 0) {
				t.Fatalf("unexpected errors:\n got %+v\nwant %+v", resp.Errors, tc.want)
			}
		})
	}
}

func TestPlaceOrderFormatsOnSave(t *testing.T) {
	p := policy.Default()
	p.OutputFormat = phone.StyleInternational
	orders := &memoryOrders{}
	svc, catalog := newTestService(t, p, orders)

	resp, err := svc.PlaceOrder(context.Background(), transport.PlaceOrderRequest{
		Reference: "ORD-1",
		CheckoutPhonesRequest: transport.CheckoutPhonesRequest{
			BillingPhone:   "0048 224 100 500",
			BillingCountry: "pl",
			ShippingPhone:  "",
		},
	}, catalog.Negotiate("", ""))
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}
	if resp.BillingPhone != "+48 22 410 05 00" || resp.ShippingPhone != "" || resp.BillingCountry != "PL" {
		t.Fatalf("unexpected stored phones %+v", resp)
	}
}

func TestPlaceOrderKeepsInputWithoutFormatOnSave(t *testing.T) {
	p := policy.Default()
	p.FormatOnSave = false
	svc, catalog := newTestService(t, p, &memoryOrders{})

	resp, err := svc.PlaceOrder(context.Background(), transport.PlaceOrderRequest{
		Reference:             "ORD-2",
		CheckoutPhonesRequest: transport.CheckoutPhonesRequest{BillingPhone: "22 410 05 00", BillingCountry: "PL"},
	}, catalog.Negotiate("", ""))
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}
	if resp.BillingPhone != "22 410 05 00" {
		t.Fatalf("expected raw phone to be stored, got %q", resp.BillingPhone)
	}
}

func TestPlaceOrderRejectsInvalidPhones(t *testing.T) {
	orders := &memoryOrders{}
	svc, catalog := newTestService(t, policy.Default(), orders)

	_, err := svc.PlaceOrder(context.Background(), transport.PlaceOrderRequest{
		Reference:             "ORD-3",
		CheckoutPhonesRequest: transport.CheckoutPhonesRequest{BillingPhone: "+48 22 410 05 00", ShippingPhone: "+999123456"},
	}, catalog.Negotiate("pl", ""))

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := appErr.Details.([]transport.FieldError)
	if !ok || len(details) != 1 || details[0].Field != "shipping_phone" || details[0].Code != "invalid_country_code" {
		t.Fatalf("unexpected details %+v", appErr.Details)
	}
	if appErr.Message != details[0].Message {
		t.Fatalf("expected top-level message to match first field error, got %q", appErr.Message)
	}
	if len(orders.orders) != 0 {
		t.Fatal("rejected orders must not be stored")
	}
}

func TestFormatForStorage(t *testing.T) {
	svc, _ := newTestService(t, policy.Default(), &memoryOrders{})
	p := policy.Default()
	p.OutputFormat = phone.StyleNational

	if got, ok := svc.FormatForStorage("+48224100500", "", p); !ok || got != "22 410 05 00" {
		t.Fatalf("expected national format, got %q ok=%v", got, ok)
	}
	if got, ok := svc.FormatForStorage("12345", "PL", p); ok || got != "12345" {
		t.Fatalf("expected invalid input unchanged, got %q ok=%v", got, ok)
	}
}

func TestReformatStoredOrders(t *testing.T) {
	p := policy.Default()
	p.OutputFormat = phone.StyleE164

	orders := &memoryOrders{}
	for i := 0; i < 7; i++ {
		orders.orders = append(orders.orders, repository.Order{
			ID:               uuid.New(),
			BillingCountry:   "PL",
			BillingPhone:     "22 410 05 00",
			BillingPhoneE164: "+48224100500",
		})
	}
	legacyInternational := repository.Order{ID: uuid.New(), BillingPhone: "+48 22 410 05 00"}
	legacyNational := repository.Order{ID: uuid.New(), BillingCountry: "PL", BillingPhone: "22 410 05 00"}
	orders.orders = append(orders.orders,
		legacyInternational,
		legacyNational,
		repository.Order{ID: uuid.New(), BillingCountry: "PL", BillingPhone: "garbage"},
	)

	svc, _ := newTestService(t, p, orders)
	updated, err := svc.ReformatStoredOrders(context.Background(), 3)
	if err != nil {
		t.Fatalf("ReformatStoredOrders returned error: %v", err)
	}
	if updated != 8 {
		t.Fatalf("expected 8 updated orders, got %d", updated)
	}
	for _, o := range orders.orders {
		switch o.ID {
		case legacyNational.ID:
			if o.BillingPhone != "22 410 05 00" || o.BillingPhoneE164 != "" {
				t.Fatalf("national phone without canonical number must be left alone, got %+v", o)
			}
		case legacyInternational.ID:
			if o.BillingPhone != "+48224100500" || o.BillingPhoneE164 != "+48224100500" {
				t.Fatalf("expected international legacy phone reformatted and backfilled, got %+v", o)
			}
		default:
			if o.BillingPhone != "+48224100500" && o.BillingPhone != "garbage" {
				t.Fatalf("unexpected billing phone %q", o.BillingPhone)
			}
		}
	}

	again, err := svc.ReformatStoredOrders(context.Background(), 3)
	if err != nil || again != 0 {
		t.Fatalf("expected second run to change nothing, got %d err=%v", again, err)
	}
}

func TestReformatStoredOrdersKeepsForeignNumberCountry(t *testing.T) {
	national := policy.Default()
	national.OutputFormat = phone.StyleNational
	orders := &memoryOrders{}
	svc, catalog := newTestService(t, national, orders)

	// A Polish landline given with a German billing address.
	placed, err := svc.PlaceOrder(context.Background(), transport.PlaceOrderRequest{
		Reference:             "ORD-DE",
		CheckoutPhonesRequest: transport.CheckoutPhonesRequest{BillingPhone: "+48224100500", BillingCountry: "DE"},
	}, catalog.Negotiate("", ""))
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}
	if placed.BillingPhone != "22 410 05 00" || orders.orders[0].BillingPhoneE164 != "+48224100500" {
		t.Fatalf("unexpected stored order %+v", orders.orders[0])
	}

	for _, mode := range []policy.Mode{policy.ModeDefaultAndInternational, policy.ModeInternationalOnly} {
		e164 := policy.Default()
		e164.Mode = mode
		e164.OutputFormat = phone.StyleE164
		orders.orders[0].BillingPhone = "22 410 05 00"

		reformatter, _ := newTestService(t, e164, orders)
		updated, err := reformatter.ReformatStoredOrders(context.Background(), 10)
		if err != nil {
			t.Fatalf("%s: ReformatStoredOrders returned error: %v", mode, err)
		}
		if updated != 1 || orders.orders[0].BillingPhone != "+48224100500" {
			t.Fatalf("%s: expected +48224100500 after reformat, got %q (updated=%d)", mode, orders.orders[0].BillingPhone, updated)
		}
	}
}

func TestReformatStoredOrdersSkipsWithoutFormatOnSave(t *testing.T) {
	p := policy.Default()
	p.FormatOnSave = false
	orders := &memoryOrders{listErr: errors.New("must not list")}
	svc, _ := newTestService(t, p, orders)

	if n, err := svc.ReformatStoredOrders(context.Background(), 10); err != nil || n != 0 {
		t.Fatalf("expected skip, got %d err=%v", n, err)
	}
}

func TestReformatStoredOrdersReportsStorageErrors(t *testing.T) {
	svc, _ := newTestService(t, policy.Default(), &memoryOrders{listErr: errors.New("connection reset")})

	if _, err := svc.ReformatStoredOrders(context.Background(), 10); !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}
