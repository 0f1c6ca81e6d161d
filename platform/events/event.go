// Package events carries domain events between modules of one process.
// Modules publish facts (settings saved, order placed) and other modules react
// without importing each other.
package events

import (
	"context"
	"time"
)

// Event is a fact that already happened.
type Event interface {
	// EventName is the subscription key, e.g. "checkout.order.placed".
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent is embedded by concrete events to supply OccurredAt.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps an event with the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now().UTC()}
}

// Handler reacts to one published event. Returned errors are reported by the
// bus; they never reach the publisher of an asynchronous event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function subscribe.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus routes events to the handlers subscribed under their EventName.
//
// Publish returns immediately. Handlers run concurrently on a context that
// keeps the publisher's values but not its cancellation, so work started by an
// HTTP request survives the response. Handler errors and panics are logged.
//
// PublishSync runs the handlers in subscription order on the caller's context
// and returns their joined errors; a panicking handler becomes an error.
type Bus interface {
	Publish(ctx context.Context, event Event)
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}
