package adapters

import (
	"context"

	"checkout_phone_backend/internal/events"
	"checkout_phone_backend/internal/scheduler"
	"checkout_phone_backend/platform/logger"
)

// PhoneReformatTrigger enqueues a stored-order reformat whenever a settings
// update changes the output style or switches format-on-save on.
type PhoneReformatTrigger struct {
	scheduler scheduler.PhoneReformatScheduler
	log       *logger.Logger
}

// NewPhoneReformatTrigger creates a new adapter.
func NewPhoneReformatTrigger(s scheduler.PhoneReformatScheduler, log *logger.Logger) *PhoneReformatTrigger {
	return &PhoneReformatTrigger{scheduler: s, log: log}
}

// RegisterHandlers subscribes the trigger to settings updates.
func (t *PhoneReformatTrigger) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.PhoneSettingsUpdated{}.EventName(), t)
}

// Handle implements events.Handler.
func (t *PhoneReformatTrigger) Handle(ctx context.Context, event events.Event) error {
	e, ok := event.(events.PhoneSettingsUpdated)
	if !ok || !e.NeedsReformat() {
		return nil
	}

	if err := t.scheduler.EnqueuePhoneReformat(ctx, scheduler.OrdersPhoneReformatPayload{
		OutputFormat: string(e.Current.OutputFormat),
	}); err != nil {
		return err
	}

	t.log.WithContext(ctx).Info("orders phone reformat enqueued",
		"actor", e.Actor,
		"from", string(e.Previous.OutputFormat),
		"to", string(e.Current.OutputFormat),
	)
	return nil
}

// Compile-time check.
var _ events.Handler = (*PhoneReformatTrigger)(nil)
