package commands

import (
	"context"
	"log/slog"
	"time"

	"provenance/contexts/supply-chain/product-ledger/ports"
	"provenance/internal/shared/events"
)

// publishLedgerNotification emits one notification after the state commit.
// Failures are logged only; the mutation already happened and delivery is the
// outside observer's responsibility, never retried here.
func publishLedgerNotification(
	ctx context.Context,
	publisher ports.NotificationPublisher,
	ids ports.IDGenerator,
	logger *slog.Logger,
	eventType string,
	productID string,
	actorID string,
	occurredAt time.Time,
	payload map[string]string,
) {
	if publisher == nil {
		return
	}
	event := events.Envelope{
		EventType:     eventType,
		SourceService: "provenance",
		OccurredAtUTC: occurredAt,
		EntityType:    "product",
		EntityID:      productID,
		ActorID:       actorID,
		Payload:       payload,
	}
	if ids != nil {
		if id, err := ids.NewID(ctx); err == nil {
			event.EventID = id
		}
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Error("ledger notification publish failed",
			"event", "ledger_notification_publish_failed",
			"module", "supply-chain/product-ledger",
			"layer", "application",
			"event_type", eventType,
			"product_id", productID,
			"error", err.Error(),
		)
	}
}

func newEntryID(ctx context.Context, ids ports.IDGenerator) (string, error) {
	if ids == nil {
		return "", nil
	}
	return ids.NewID(ctx)
}

func resolveNow(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}
