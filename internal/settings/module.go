// Package settings provides the phone validation settings bounded context module.
package settings

import (
	"time"

	gpvalidator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"checkout_phone_backend/internal/events"
	apphttp "checkout_phone_backend/internal/http"
	"checkout_phone_backend/internal/phonevalidation/policy"
	"checkout_phone_backend/internal/settings/cache"
	"checkout_phone_backend/internal/settings/handler"
	"checkout_phone_backend/internal/settings/repository"
	"checkout_phone_backend/internal/settings/service"
	"checkout_phone_backend/platform/logger"
	"checkout_phone_backend/platform/metrics"
	"checkout_phone_backend/platform/phone"
	"checkout_phone_backend/platform/validator"
)

// Module is the settings bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the settings module. redisClient may be
// nil, in which case every policy read goes to PostgreSQL.
func NewModule(pool *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration, plan *phone.Libphonenumber, defaults policy.Policy, bus events.Bus, val *validator.Validator, log *logger.Logger, m *metrics.Metrics) *Module {
	RegisterValidations(val)

	var policyCache service.Cache
	if redisClient != nil {
		policyCache = cache.New(redisClient, cacheTTL)
	}

	svc := service.New(repository.New(pool), policyCache, plan, defaults, bus, log, m)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// RegisterValidations adds the phonemode tag used by settings requests.
func RegisterValidations(val *validator.Validator) {
	_ = val.RegisterValidation("phonemode", func(fl gpvalidator.FieldLevel) bool {
		_, err := policy.ParseMode(fl.Field().String())
		return err == nil
	})
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "settings"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts settings routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	adminGroup := ctx.Admin.Group("/phone-validation")
	adminGroup.GET("/settings", m.handler.GetSettings)
	adminGroup.PUT("/settings", m.handler.UpdateSettings)
	adminGroup.GET("/countries", m.handler.ListCountries)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
