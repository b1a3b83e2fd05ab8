package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "provenance/contexts/supply-chain/product-ledger/application"
	"provenance/contexts/supply-chain/product-ledger/ports"
	"provenance/internal/shared/events"
)

// OutboxRelay drains pending notification rows and publishes them to the bus.
// The relay is the delivery half of notifications for the durable wiring; the
// ledger core never retries delivery itself.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.NotificationPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("outbox list pending failed",
			"event", "ledger_outbox_list_failed",
			"module", "supply-chain/product-ledger",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, message := range pending {
		var envelope events.Envelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			logger.Error("outbox payload decode failed",
				"event", "ledger_outbox_decode_failed",
				"module", "supply-chain/product-ledger",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return err
		}

		if err := r.Publisher.Publish(ctx, envelope); err != nil {
			logger.Error("outbox publish failed",
				"event", "ledger_outbox_publish_failed",
				"module", "supply-chain/product-ledger",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"event_id", envelope.EventID,
				"event_type", envelope.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, message.OutboxID, now); err != nil {
			logger.Error("outbox mark published failed",
				"event", "ledger_outbox_mark_failed",
				"module", "supply-chain/product-ledger",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	if len(pending) > 0 {
		logger.Info("outbox relay cycle completed",
			"event", "ledger_outbox_relay_completed",
			"module", "supply-chain/product-ledger",
			"layer", "worker",
			"sent_count", len(pending),
		)
	}
	return nil
}
