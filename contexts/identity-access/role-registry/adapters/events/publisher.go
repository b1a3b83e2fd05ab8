package events

import (
	"context"
	"log/slog"

	"provenance/internal/shared/events"
)

// TopicPublisher is the slice of the platform bus the adapter needs.
type TopicPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

// BusPublisher forwards registry notifications to the platform bus.
type BusPublisher struct {
	Bus   TopicPublisher
	Topic string
}

func (p BusPublisher) Publish(ctx context.Context, event events.Envelope) error {
	topic := p.Topic
	if topic == "" {
		topic = "registry.notifications"
	}
	return p.Bus.Publish(ctx, topic, event)
}

// LogPublisher records notifications to the log only. Used by the in-memory
// module wiring where no bus is attached.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) Publish(_ context.Context, event events.Envelope) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("registry notification published",
		"event", "registry_notification_published",
		"module", "identity-access/role-registry",
		"layer", "adapter",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"entity_id", event.EntityID,
	)
	return nil
}
