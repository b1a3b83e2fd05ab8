package messaging

import (
	"context"
	"testing"
	"time"

	"provenance/internal/shared/events"
)

func TestBusDeliversToSubscribers(t *testing.T) {
	bus, err := NewBus(nil, nil)
	if err != nil {
		t.Fatalf("new bus failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan events.Envelope, 1)
	err = bus.Subscribe(ctx, "custody.notifications", "test-cg", func(_ context.Context, event events.Envelope) error {
		received <- event
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	sent := events.Envelope{EventID: "evt-1", EventType: events.TypeProductCreated, EntityID: "SKU-1"}
	if err := bus.Publish(ctx, "custody.notifications", sent); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-received:
		if got.EventID != "evt-1" || got.EventType != events.TypeProductCreated {
			t.Fatalf("unexpected envelope: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for delivery")
	}
}

func TestBusTopicsAreIsolated(t *testing.T) {
	bus, err := NewBus(nil, nil)
	if err != nil {
		t.Fatalf("new bus failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan events.Envelope, 1)
	err = bus.Subscribe(ctx, "registry.notifications", "test-cg", func(_ context.Context, event events.Envelope) error {
		received <- event
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := bus.Publish(ctx, "custody.notifications", events.Envelope{EventID: "evt-other"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-received:
		t.Fatalf("expected no delivery across topics, got %+v", got)
	case <-time.After(100 * time.Millisecond):
	}
}
