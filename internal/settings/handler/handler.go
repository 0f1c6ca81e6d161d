package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"checkout_phone_backend/internal/settings/service"
	"checkout_phone_backend/internal/settings/transport"
	"checkout_phone_backend/platform/httpkit"
	"checkout_phone_backend/platform/validator"
)

// Handler handles HTTP requests for phone validation settings.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new settings handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GetSettings returns the stored phone validation policy.
// GET /api/v1/admin/phone-validation/settings
func (h *Handler) GetSettings(c *gin.Context) {
	result, err := h.svc.Get(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateSettings saves the phone validation policy.
// PUT /api/v1/admin/phone-validation/settings
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req transport.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Update(c.Request.Context(), identity.Actor(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListCountries returns the regions an administrator can pick as default.
// GET /api/v1/admin/phone-validation/countries
func (h *Handler) ListCountries(c *gin.Context) {
	var req transport.ListCountriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	locale := req.Locale
	if locale == "" {
		locale = c.GetHeader("Accept-Language")
	}
	httpkit.OK(c, h.svc.SupportedCountries(firstLanguage(locale)))
}

// firstLanguage picks the first tag of an Accept-Language style list.
func firstLanguage(value string) string {
	for i, r := range value {
		if r == ',' || r == ';' {
			return value[:i]
		}
	}
	return value
}
