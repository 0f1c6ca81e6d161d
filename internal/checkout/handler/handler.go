package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"checkout_phone_backend/internal/checkout/messages"
	"checkout_phone_backend/internal/checkout/service"
	"checkout_phone_backend/internal/checkout/transport"
	"checkout_phone_backend/platform/httpkit"
	"checkout_phone_backend/platform/validator"
)

// Handler handles checkout HTTP requests.
type Handler struct {
	svc     *service.Service
	catalog *messages.Catalog
	val     *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new checkout handler.
func New(svc *service.Service, catalog *messages.Catalog, val *validator.Validator) *Handler {
	return &Handler{svc: svc, catalog: catalog, val: val}
}

// ValidatePhones checks checkout phones without storing anything.
// POST /api/v1/checkout/phone-validation
func (h *Handler) ValidatePhones(c *gin.Context) {
	var req transport.CheckoutPhonesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	locale := h.catalog.Negotiate(req.Locale, c.GetHeader("Accept-Language"))
	httpkit.OK(c, h.svc.ValidateCheckout(c.Request.Context(), req, locale))
}

// PlaceOrder validates checkout phones and stores the order.
// POST /api/v1/checkout/orders
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req transport.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	locale := h.catalog.Negotiate(req.Locale, c.GetHeader("Accept-Language"))
	result, err := h.svc.PlaceOrder(c.Request.Context(), req, locale)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}
