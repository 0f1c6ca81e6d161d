package transport

import (
	"time"

	"github.com/google/uuid"
)

// Checkout field names used in error details.
const (
	FieldBillingPhone  = "billing_phone"
	FieldShippingPhone = "shipping_phone"
)

// CheckoutPhonesRequest carries the contact phones of a checkout form.
// Countries are the address countries and act as region hints.
type CheckoutPhonesRequest struct {
	BillingPhone    string `json:"billingPhone" validate:"max=64"`
	BillingCountry  string `json:"billingCountry" validate:"max=8"`
	ShippingPhone   string `json:"shippingPhone" validate:"max=64"`
	ShippingCountry string `json:"shippingCountry" validate:"max=8"`
	Locale          string `json:"locale,omitempty" validate:"max=35"`
}

type PlaceOrderRequest struct {
	CheckoutPhonesRequest
	Reference string `json:"reference" validate:"required,min=1,max=64"`
}

// FieldError is one structured phone validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationResponse struct {
	Valid  bool         `json:"valid"`
	Locale string       `json:"locale"`
	Errors []FieldError `json:"errors"`
}

type OrderResponse struct {
	ID              uuid.UUID `json:"id"`
	Reference       string    `json:"reference"`
	BillingCountry  string    `json:"billingCountry"`
	BillingPhone    string    `json:"billingPhone"`
	ShippingCountry string    `json:"shippingCountry"`
	ShippingPhone   string    `json:"shippingPhone"`
	Locale          string    `json:"locale"`
	CreatedAt       time.Time `json:"createdAt"`
}
