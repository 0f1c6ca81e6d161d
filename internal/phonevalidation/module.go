// Package phonevalidation provides the public single-number validation endpoint
// on top of the validation engine and formatter.
package phonevalidation

import (
	apphttp "checkout_phone_backend/internal/http"
	"checkout_phone_backend/internal/phonevalidation/formatter"
	"checkout_phone_backend/internal/phonevalidation/handler"
	"checkout_phone_backend/internal/phonevalidation/validation"
	"checkout_phone_backend/platform/metrics"
	"checkout_phone_backend/platform/phone"
	"checkout_phone_backend/platform/validator"
)

// Module is the phone validation module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the phone validation module.
func NewModule(plan phone.NumberingPlan, policies handler.PolicyProvider, val *validator.Validator, m *metrics.Metrics) *Module {
	return &Module{
		handler: handler.New(validation.NewEngine(plan), formatter.New(plan), policies, val, m),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "phonevalidation"
}

// RegisterRoutes mounts the validation route behind the public rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/phone")
	if ctx.PublicRateLimiter != nil {
		group.Use(ctx.PublicRateLimiter.RateLimit())
	}
	group.POST("/validate", m.handler.Validate)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
