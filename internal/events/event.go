// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"checkout_phone_backend/internal/phonevalidation/policy"
	"checkout_phone_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Phone Validation Settings Events
// =============================================================================

// PhoneSettingsUpdated is published after an administrator saves the policy.
type PhoneSettingsUpdated struct {
	BaseEvent
	Actor    string        `json:"actor"`
	Previous policy.Policy `json:"previous"`
	Current  policy.Policy `json:"current"`
}

func (e PhoneSettingsUpdated) EventName() string { return "phone_validation.settings.updated" }

// NeedsReformat reports whether stored numbers need to be re-rendered: the new
// policy formats on save and either the style changed or formatting was off.
func (e PhoneSettingsUpdated) NeedsReformat() bool {
	if !e.Current.Enabled || !e.Current.FormatOnSave {
		return false
	}
	return e.Previous.OutputFormat != e.Current.OutputFormat ||
		!e.Previous.FormatOnSave ||
		!e.Previous.Enabled
}

// =============================================================================
// Checkout Events
// =============================================================================

// OrderPlaced is published when an order passes phone validation and is stored.
type OrderPlaced struct {
	BaseEvent
	OrderID   uuid.UUID `json:"orderId"`
	Reference string    `json:"reference"`
}

func (e OrderPlaced) EventName() string { return "checkout.order.placed" }
