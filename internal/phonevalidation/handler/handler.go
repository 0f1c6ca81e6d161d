package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"checkout_phone_backend/internal/phonevalidation/formatter"
	"checkout_phone_backend/internal/phonevalidation/policy"
	"checkout_phone_backend/internal/phonevalidation/transport"
	"checkout_phone_backend/internal/phonevalidation/validation"
	"checkout_phone_backend/platform/httpkit"
	"checkout_phone_backend/platform/metrics"
	"checkout_phone_backend/platform/sanitize"
	"checkout_phone_backend/platform/validator"
)

// metricsField labels single-number checks in validation metrics.
const metricsField = "phone"

// PolicyProvider returns the policy snapshot to apply to one request.
type PolicyProvider interface {
	Current(ctx context.Context) policy.Policy
}

// Handler serves single-number validation for live form feedback.
type Handler struct {
	engine    *validation.Engine
	formatter *formatter.Formatter
	policies  PolicyProvider
	val       *validator.Validator
	metrics   *metrics.Metrics
}

// New creates a phone validation handler.
func New(engine *validation.Engine, f *formatter.Formatter, policies PolicyProvider, val *validator.Validator, m *metrics.Metrics) *Handler {
	return &Handler{engine: engine, formatter: f, policies: policies, val: val, metrics: m}
}

// Validate checks one phone number against the current policy and returns
// its classification and every rendering when it is valid. With validation
// disabled the number is reported valid, as checkout would accept it; the
// renderings are still returned when it parses.
// POST /api/v1/phone/validate
func (h *Handler) Validate(c *gin.Context) {
	var req transport.ValidatePhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", validator.FieldErrors(err))
		return
	}

	p := h.policies.Current(c.Request.Context())
	result := h.engine.Validate(sanitize.Field(req.Phone), sanitize.Field(req.Country), p)

	if kind, failed := result.ErrorKind(); failed {
		if !p.Enabled {
			httpkit.OK(c, transport.ValidatePhoneResponse{Valid: true})
			return
		}
		h.metrics.IncrementValidation(metricsField, string(kind))
		httpkit.OK(c, transport.ValidatePhoneResponse{Valid: false, Code: string(kind)})
		return
	}

	number, _ := result.Number()
	h.metrics.IncrementValidation(metricsField, "valid")

	formats := make(map[string]string, 3)
	for style, text := range h.formatter.All(number) {
		formats[string(style)] = text
	}
	httpkit.OK(c, transport.ValidatePhoneResponse{
		Valid:       true,
		Region:      number.Region(),
		CountryCode: number.CountryCode(),
		Formatted:   h.formatter.FormatWithPolicy(number, p),
		Formats:     formats,
	})
}
