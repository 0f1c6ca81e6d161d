// Package service applies phone validation and formatting to checkout
// submissions and stored orders.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"checkout_phone_backend/internal/checkout/messages"
	"checkout_phone_backend/internal/checkout/transport"
	"checkout_phone_backend/internal/events"
	"checkout_phone_backend/internal/orders/repository"
	"checkout_phone_backend/internal/phonevalidation/formatter"
	"checkout_phone_backend/internal/phonevalidation/policy"
	"checkout_phone_backend/internal/phonevalidation/validation"
	"checkout_phone_backend/platform/apperr"
	"checkout_phone_backend/platform/logger"
	"checkout_phone_backend/platform/metrics"
	"checkout_phone_backend/platform/phone"
	"checkout_phone_backend/platform/sanitize"
)

const (
	msgInvalidPhones = "checkout phone validation failed"
	codeInvalidPhone = "invalid_phone"

	// outcomeValid labels successful validations in metrics.
	outcomeValid = "valid"

	// DefaultReformatBatchSize is used when callers pass a non-positive size.
	DefaultReformatBatchSize = 500
	reformatWorkers          = 4
)

// PolicyProvider returns the policy snapshot to apply to one request.
type PolicyProvider interface {
	Current(ctx context.Context) policy.Policy
}

// Service validates checkout phones, persists orders and reformats stored phones.
type Service struct {
	engine    *validation.Engine
	formatter *formatter.Formatter
	policies  PolicyProvider
	orders    repository.Repository
	catalog   *messages.Catalog
	bus       events.Bus
	log       *logger.Logger
	metrics   *metrics.Metrics
}

// New creates a checkout service. bus and m may be nil.
func New(engine *validation.Engine, f *formatter.Formatter, policies PolicyProvider, orders repository.Repository, catalog *messages.Catalog, bus events.Bus, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		engine:    engine,
		formatter: f,
		policies:  policies,
		orders:    orders,
		catalog:   catalog,
		bus:       bus,
		log:       log,
		metrics:   m,
	}
}

// checkoutPhone is one phone field of a checkout form with its region hint.
type checkoutPhone struct {
	field   string
	raw     string
	country string
}

func phonesOf(req transport.CheckoutPhonesRequest) []checkoutPhone {
	return []checkoutPhone{
		{field: transport.FieldBillingPhone, raw: sanitize.Field(req.BillingPhone), country: sanitize.Field(req.BillingCountry)},
		{field: transport.FieldShippingPhone, raw: sanitize.Field(req.ShippingPhone), country: sanitize.Field(req.ShippingCountry)},
	}
}

// ValidateCheckout checks the billing and then the shipping phone. Empty
// fields are skipped; whether a phone is required is decided elsewhere.
func (s *Service) ValidateCheckout(ctx context.Context, req transport.CheckoutPhonesRequest, locale messages.Locale) transport.ValidationResponse {
	p := s.policies.Current(ctx)
	fieldErrors := s.validatePhones(ctx, phonesOf(req), p, locale)
	return transport.ValidationResponse{
		Valid:  len(fieldErrors) == 0,
		Locale: locale.String(),
		Errors: fieldErrors,
	}
}

func (s *Service) validatePhones(ctx context.Context, phones []checkoutPhone, p policy.Policy, locale messages.Locale) []transport.FieldError {
	fieldErrors := make([]transport.FieldError, 0)
	if !p.Enabled {
		return fieldErrors
	}

	log := s.log.WithContext(ctx)
	for _, ph := range phones {
		if strings.TrimSpace(ph.raw) == "" {
			continue
		}

		result := s.engine.Validate(ph.raw, ph.country, p)
		kind, failed := result.ErrorKind()
		if !failed {
			s.metrics.IncrementValidation(ph.field, outcomeValid)
			continue
		}

		code := string(kind)
		s.metrics.IncrementValidation(ph.field, code)
		log.PhoneRejected(ph.field, code, ph.raw)
		fieldErrors = append(fieldErrors, transport.FieldError{
			Field:   ph.field,
			Code:    code,
			Message: s.catalog.Message(locale, ph.field, code),
		})
	}
	return fieldErrors
}

// PlaceOrder validates both phones and stores the order. Any invalid phone
// rejects the whole order with the per-field errors as details. When the
// policy formats on save, stored phones use the configured output style.
// Validated phones are also stored in E.164 so later reformatting never has
// to guess the region of a national-style display string.
func (s *Service) PlaceOrder(ctx context.Context, req transport.PlaceOrderRequest, locale messages.Locale) (transport.OrderResponse, error) {
	p := s.policies.Current(ctx)
	phones := phonesOf(req.CheckoutPhonesRequest)

	if fieldErrors := s.validatePhones(ctx, phones, p, locale); len(fieldErrors) > 0 {
		return transport.OrderResponse{}, apperr.Validation(fieldErrors[0].Message).
			WithCode(codeInvalidPhone).
			WithDetails(fieldErrors).
			WithOp("checkout.PlaceOrder")
	}

	billing, shipping := phones[0], phones[1]
	billingPhone, shippingPhone := billing.raw, shipping.raw
	var billingE164, shippingE164 string
	if p.Enabled {
		billingE164 = s.canonicalE164(billing.raw, billing.country, p)
		shippingE164 = s.canonicalE164(shipping.raw, shipping.country, p)
	}
	if p.Enabled && p.FormatOnSave {
		billingPhone, _ = s.FormatForStorage(billing.raw, billing.country, p)
		shippingPhone, _ = s.FormatForStorage(shipping.raw, shipping.country, p)
	}

	order, err := s.orders.Create(ctx, repository.CreateParams{
		Reference:         sanitize.Field(req.Reference),
		BillingCountry:    strings.ToUpper(billing.country),
		BillingPhone:      billingPhone,
		BillingPhoneE164:  billingE164,
		ShippingCountry:   strings.ToUpper(shipping.country),
		ShippingPhone:     shippingPhone,
		ShippingPhoneE164: shippingE164,
		Locale:            locale.String(),
	})
	if err != nil {
		return transport.OrderResponse{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.OrderPlaced{
			BaseEvent: events.NewBaseEvent(),
			OrderID:   order.ID,
			Reference: order.Reference,
		})
	}
	return toOrderResponse(order), nil
}

// FormatForStorage renders raw in the policy's output style. Numbers that do
// not validate are returned unchanged with ok set to false.
func (s *Service) FormatForStorage(raw, country string, p policy.Policy) (formatted string, ok bool) {
	if strings.TrimSpace(raw) == "" {
		return raw, false
	}
	number, valid := s.engine.Validate(raw, country, p).Number()
	if !valid {
		return raw, false
	}
	return s.formatter.FormatWithPolicy(number, p), true
}

// canonicalE164 returns raw in E.164, or "" when it does not validate.
func (s *Service) canonicalE164(raw, country string, p policy.Policy) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	number, ok := s.engine.Validate(raw, country, p).Number()
	if !ok {
		return ""
	}
	return s.formatter.Format(number, phone.StyleE164)
}

// reformatStoredPhone re-renders one stored phone from its canonical number.
// Without one, only display text that carries its own calling code is used;
// national text is never re-parsed because the address country need not be
// the phone's country.
func (s *Service) reformatStoredPhone(display, canonical string, p policy.Policy) (string, string) {
	source := canonical
	if source == "" {
		if !phone.IsInternational(phone.Normalize(display)) {
			return display, canonical
		}
		source = display
	}

	number, ok := s.engine.Validate(source, "", p).Number()
	if !ok {
		return display, canonical
	}
	return s.formatter.FormatWithPolicy(number, p), s.formatter.Format(number, phone.StyleE164)
}

// ReformatStoredOrders re-renders stored order phones in the current output
// style, walking the orders table in ID order. It returns the number of orders
// whose phones changed. Phones with neither a canonical E.164 copy nor a
// leading '+' are left as they are.
func (s *Service) ReformatStoredOrders(ctx context.Context, batchSize int) (int, error) {
	p := s.policies.Current(ctx)
	log := s.log.WithContext(ctx)
	if !p.Enabled || !p.FormatOnSave {
		log.Info("phone reformat skipped", "enabled", p.Enabled, "format_on_save", p.FormatOnSave)
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = DefaultReformatBatchSize
	}

	total := 0
	after := uuid.Nil
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		batch, err := s.orders.ListAfter(ctx, after, batchSize)
		if err != nil {
			return total, apperr.Unavailable("could not list orders", err).WithOp("checkout.ReformatStoredOrders")
		}
		if len(batch) == 0 {
			break
		}

		updates, err := s.reformatBatch(ctx, batch, p)
		if err != nil {
			return total, err
		}
		if err := s.orders.UpdatePhones(ctx, updates); err != nil {
			return total, apperr.Unavailable("could not update orders", err).WithOp("checkout.ReformatStoredOrders")
		}

		total += len(updates)
		s.metrics.AddOrdersReformatted(len(updates))
		after = batch[len(batch)-1].ID
		if len(batch) < batchSize {
			break
		}
	}

	log.Info("phone reformat finished", "orders_updated", total, "output_format", string(p.OutputFormat))
	return total, nil
}

func (s *Service) reformatBatch(ctx context.Context, batch []repository.Order, p policy.Policy) ([]repository.PhoneUpdate, error) {
	results := make([]*repository.PhoneUpdate, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reformatWorkers)
	for i := range batch {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			order := batch[i]
			billing, billingE164 := s.reformatStoredPhone(order.BillingPhone, order.BillingPhoneE164, p)
			shipping, shippingE164 := s.reformatStoredPhone(order.ShippingPhone, order.ShippingPhoneE164, p)
			if billing == order.BillingPhone && billingE164 == order.BillingPhoneE164 &&
				shipping == order.ShippingPhone && shippingE164 == order.ShippingPhoneE164 {
				return nil
			}
			results[i] = &repository.PhoneUpdate{
				ID:                order.ID,
				BillingPhone:      billing,
				BillingPhoneE164:  billingE164,
				ShippingPhone:     shipping,
				ShippingPhoneE164: shippingE164,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	updates := make([]repository.PhoneUpdate, 0, len(batch))
	for _, u := range results {
		if u != nil {
			updates = append(updates, *u)
		}
	}
	return updates, nil
}

func toOrderResponse(o repository.Order) transport.OrderResponse {
	return transport.OrderResponse{
		ID:              o.ID,
		Reference:       o.Reference,
		BillingCountry:  o.BillingCountry,
		BillingPhone:    o.BillingPhone,
		ShippingCountry: o.ShippingCountry,
		ShippingPhone:   o.ShippingPhone,
		Locale:          o.Locale,
		CreatedAt:       o.CreatedAt,
	}
}
