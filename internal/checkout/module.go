// Package checkout provides the checkout bounded context module: phone
// validation of checkout forms and order persistence.
package checkout

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"checkout_phone_backend/internal/checkout/handler"
	"checkout_phone_backend/internal/checkout/messages"
	"checkout_phone_backend/internal/checkout/service"
	"checkout_phone_backend/internal/events"
	apphttp "checkout_phone_backend/internal/http"
	"checkout_phone_backend/internal/orders/repository"
	"checkout_phone_backend/internal/phonevalidation/formatter"
	"checkout_phone_backend/internal/phonevalidation/validation"
	"checkout_phone_backend/platform/logger"
	"checkout_phone_backend/platform/metrics"
	"checkout_phone_backend/platform/phone"
	"checkout_phone_backend/platform/validator"
)

// Module is the checkout bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	log     *logger.Logger
}

// NewModule creates and initializes the checkout module.
func NewModule(pool *pgxpool.Pool, plan phone.NumberingPlan, policies service.PolicyProvider, catalog *messages.Catalog, bus events.Bus, val *validator.Validator, log *logger.Logger, m *metrics.Metrics) *Module {
	svc := service.New(
		validation.NewEngine(plan),
		formatter.New(plan),
		policies,
		repository.New(pool),
		catalog,
		bus,
		log,
		m,
	)

	return &Module{
		handler: handler.New(svc, catalog, val),
		service: svc,
		log:     log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "checkout"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts checkout routes on the provided router context.
// Checkout is anonymous, so every route is behind the public rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	publicGroup := ctx.V1.Group("/checkout")
	if ctx.PublicRateLimiter != nil {
		publicGroup.Use(ctx.PublicRateLimiter.RateLimit())
	}
	publicGroup.POST("/phone-validation", m.handler.ValidatePhones)
	publicGroup.POST("/orders", m.handler.PlaceOrder)
}

// RegisterHandlers subscribes to domain events.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.OrderPlaced{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.OrderPlaced:
		m.log.WithContext(ctx).Info("order placed", "order_id", e.OrderID.String(), "reference", e.Reference)
		return nil
	default:
		return nil
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
