package postgresadapter

import (
	"time"

	"provenance/contexts/supply-chain/product-ledger/domain/entities"
)

type productModel struct {
	ProductID        string    `gorm:"column:product_id;primaryKey"`
	OwnerID          string    `gorm:"column:owner_id;not null"`
	OwnerRole        string    `gorm:"column:owner_role;not null"`
	Status           string    `gorm:"column:status;not null"`
	PendingRecipient string    `gorm:"column:pending_recipient"`
	CreatedAt        time.Time `gorm:"column:created_at;not null"`
	UpdatedAt        time.Time `gorm:"column:updated_at;not null"`
}

func (productModel) TableName() string { return "ledger_products" }

func (m productModel) toEntity() entities.Product {
	return entities.Product{
		ProductID:        m.ProductID,
		OwnerID:          m.OwnerID,
		OwnerRole:        m.OwnerRole,
		Status:           entities.Status(m.Status),
		PendingRecipient: m.PendingRecipient,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

type historyModel struct {
	EntryID   string    `gorm:"column:entry_id;primaryKey"`
	ProductID string    `gorm:"column:product_id;index;not null"`
	Sequence  int       `gorm:"column:sequence;not null"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	ActorID   string    `gorm:"column:actor_id;not null"`
	Action    string    `gorm:"column:action;not null"`
	Metadata  string    `gorm:"column:metadata"`
}

func (historyModel) TableName() string { return "ledger_history" }

func (m historyModel) toEntity() entities.EventEntry {
	return entities.EventEntry{
		EntryID:   m.EntryID,
		ProductID: m.ProductID,
		Sequence:  m.Sequence,
		Timestamp: m.Timestamp,
		ActorID:   m.ActorID,
		Action:    entities.EventAction(m.Action),
		Metadata:  m.Metadata,
	}
}

type viewGrantModel struct {
	ProductID string    `gorm:"column:product_id;primaryKey"`
	Viewer    string    `gorm:"column:viewer;primaryKey"`
	GrantedBy string    `gorm:"column:granted_by;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (viewGrantModel) TableName() string { return "ledger_view_grants" }

type outboxModel struct {
	OutboxID    string     `gorm:"column:outbox_id;primaryKey"`
	EventType   string     `gorm:"column:event_type;not null"`
	Payload     []byte     `gorm:"column:payload;not null"`
	Status      string     `gorm:"column:status;index;not null"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string { return "ledger_notification_outbox" }
