package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"provenance/contexts/supply-chain/product-ledger/ports"
	"provenance/internal/shared/events"
)

type fakeOutbox struct {
	pending   []ports.OutboxMessage
	published []string
}

func (f *fakeOutbox) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit < len(f.pending) {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeOutbox) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	f.published = append(f.published, outboxID)
	remaining := f.pending[:0]
	for _, message := range f.pending {
		if message.OutboxID != outboxID {
			remaining = append(remaining, message)
		}
	}
	f.pending = remaining
	return nil
}

type capturingPublisher struct {
	sent []events.Envelope
	err  error
}

func (p *capturingPublisher) Publish(_ context.Context, event events.Envelope) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, event)
	return nil
}

func pendingMessage(t *testing.T, outboxID, eventID string) ports.OutboxMessage {
	t.Helper()
	payload, err := json.Marshal(events.Envelope{
		EventID:   eventID,
		EventType: events.TypeProductCreated,
		EntityID:  "SKU-1",
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return ports.OutboxMessage{OutboxID: outboxID, EventType: events.TypeProductCreated, Payload: payload}
}

func TestOutboxRelayPublishesAndAcks(t *testing.T) {
	outbox := &fakeOutbox{pending: []ports.OutboxMessage{
		pendingMessage(t, "out-1", "evt-1"),
		pendingMessage(t, "out-2", "evt-2"),
	}}
	publisher := &capturingPublisher{}
	relay := OutboxRelay{Outbox: outbox, Publisher: publisher}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once failed: %v", err)
	}
	if len(publisher.sent) != 2 {
		t.Fatalf("expected 2 published, got %d", len(publisher.sent))
	}
	if len(outbox.published) != 2 || outbox.published[0] != "out-1" {
		t.Fatalf("expected both rows acknowledged in order, got %v", outbox.published)
	}
	if len(outbox.pending) != 0 {
		t.Fatalf("expected drained outbox, got %d pending", len(outbox.pending))
	}
}

func TestOutboxRelayStopsOnPublishFailure(t *testing.T) {
	outbox := &fakeOutbox{pending: []ports.OutboxMessage{
		pendingMessage(t, "out-1", "evt-1"),
	}}
	publisher := &capturingPublisher{err: errors.New("broker down")}
	relay := OutboxRelay{Outbox: outbox, Publisher: publisher}

	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected publish failure to surface")
	}
	// Unacknowledged rows stay pending for the next cycle.
	if len(outbox.pending) != 1 {
		t.Fatalf("expected row to remain pending, got %d", len(outbox.pending))
	}
	if len(outbox.published) != 0 {
		t.Fatalf("expected no acknowledgements, got %v", outbox.published)
	}
}
