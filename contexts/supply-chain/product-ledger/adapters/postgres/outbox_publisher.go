package postgresadapter

import (
	"context"
	"encoding/json"
	"time"

	"provenance/internal/shared/events"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OutboxPublisher implements ports.NotificationPublisher by persisting the
// notification as a pending outbox row. The worker relay delivers pending
// rows to the bus and marks them published.
type OutboxPublisher struct {
	db *gorm.DB
}

func NewOutboxPublisher(db *gorm.DB) *OutboxPublisher {
	return &OutboxPublisher{db: db}
}

func (p *OutboxPublisher) Publish(ctx context.Context, event events.Envelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:  uuid.NewString(),
		EventType: event.EventType,
		Payload:   payload,
		Status:    outboxStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	return p.db.WithContext(ctx).Create(&row).Error
}
