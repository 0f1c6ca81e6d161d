package adapters

import (
	"bytes"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"checkout_phone_backend/internal/events"
	"checkout_phone_backend/internal/phonevalidation/policy"
	"checkout_phone_backend/internal/scheduler"
	"checkout_phone_backend/platform/logger"
	"checkout_phone_backend/platform/phone"
)

type recordingScheduler struct {
	payloads []scheduler.OrdersPhoneReformatPayload
}

func (s *recordingScheduler) EnqueuePhoneReformat(_ context.Context, p scheduler.OrdersPhoneReformatPayload) error {
	s.payloads = append(s.payloads, p)
	return nil
}

func TestPhoneReformatTriggerEnqueuesOnStyleChange(t *testing.T) {
	sched := &recordingScheduler{}
	bus := events.NewInMemoryBus(nil)
	NewPhoneReformatTrigger(sched, logger.NewDiscard()).RegisterHandlers(bus)

	previous := policy.Default()
	current := previous
	current.OutputFormat = phone.StyleInternational

	if err := bus.PublishSync(context.Background(), events.PhoneSettingsUpdated{Actor: "user:1", Previous: previous, Current: current}); err != nil {
		t.Fatalf("PublishSync returned error: %v", err)
	}
	if err := bus.PublishSync(context.Background(), events.PhoneSettingsUpdated{Actor: "user:1", Previous: current, Current: current}); err != nil {
		t.Fatalf("PublishSync returned error: %v", err)
	}

	if len(sched.payloads) != 1 {
		t.Fatalf("expected exactly one enqueue, got %d", len(sched.payloads))
	}
	if got := sched.payloads[0]; got.OutputFormat != "INTERNATIONAL" {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestPhoneReformatTriggerEnqueuesWhenFormatOnSaveTurnsOn(t *testing.T) {
	sched := &recordingScheduler{}
	bus := events.NewInMemoryBus(nil)
	NewPhoneReformatTrigger(sched, logger.NewDiscard()).RegisterHandlers(bus)

	current := policy.Default()
	previous := current
	previous.FormatOnSave = false

	if err := bus.PublishSync(context.Background(), events.PhoneSettingsUpdated{Actor: "user:1", Previous: previous, Current: current}); err != nil {
		t.Fatalf("PublishSync returned error: %v", err)
	}
	if len(sched.payloads) != 1 || sched.payloads[0].OutputFormat != string(current.OutputFormat) {
		t.Fatalf("expected one enqueue for %s, got %+v", current.OutputFormat, sched.payloads)
	}
}

func TestPhoneReformatTriggerPayloadDoesNotDependOnActor(t *testing.T) {
	sched := &recordingScheduler{}
	bus := events.NewInMemoryBus(nil)
	NewPhoneReformatTrigger(sched, logger.NewDiscard()).RegisterHandlers(bus)

	previous := policy.Default()
	current := previous
	current.OutputFormat = phone.StyleNational

	for _, actor := range []string{"user:1", "user:2"} {
		if err := bus.PublishSync(context.Background(), events.PhoneSettingsUpdated{Actor: actor, Previous: previous, Current: current}); err != nil {
			t.Fatalf("PublishSync returned error: %v", err)
		}
	}
	if len(sched.payloads) != 2 {
		t.Fatalf("expected two enqueues, got %d", len(sched.payloads))
	}

	// Queue uniqueness hashes the task payload, so saves by different admins
	// must produce identical bytes.
	first, err := scheduler.NewOrdersPhoneReformatTask(sched.payloads[0])
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	second, err := scheduler.NewOrdersPhoneReformatTask(sched.payloads[1])
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if !bytes.Equal(first.Payload(), second.Payload()) {
		t.Fatalf("expected identical payloads, got %s and %s", first.Payload(), second.Payload())
	}
}

func TestRedisHealth(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	h := NewRedisHealth(client)
	if err := h.Ping(context.Background()); err != nil {
		t.Fatalf("expected healthy redis, got %v", err)
	}
	mr.Close()
	if err := h.Ping(context.Background()); err == nil {
		t.Fatal("expected error after redis stopped")
	}
}
