package ports

import (
	"context"
	"time"

	"provenance/contexts/supply-chain/product-ledger/domain/entities"
	"provenance/internal/shared/events"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts entry/notification id generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// RoleDirectory resolves an identity's currently registered role. Backed by
// the role-registry context; the ledger only sees role names.
type RoleDirectory interface {
	RoleOf(ctx context.Context, identity string) (string, error)
}

// RoleDirectoryFunc adapts a plain function to RoleDirectory.
type RoleDirectoryFunc func(ctx context.Context, identity string) (string, error)

func (f RoleDirectoryFunc) RoleOf(ctx context.Context, identity string) (string, error) {
	return f(ctx, identity)
}

// CreateProductInput is persisted atomically with the first history entry and
// the creator's view grant.
type CreateProductInput struct {
	ProductID string
	OwnerID   string
	OwnerRole string
	Metadata  string
	EntryID   string
	Now       time.Time
}

// InitiateTransferInput nominates a recipient. AllowReoffer false rejects the
// nomination while a previous one is still unresolved.
type InitiateTransferInput struct {
	ProductID    string
	ActorID      string
	Recipient    string
	AllowReoffer bool
	EntryID      string
	Now          time.Time
}

// AcceptTransferInput confirms a nomination. ActorRole is the caller's
// registered role at acceptance time, snapshotted onto the product.
type AcceptTransferInput struct {
	ProductID string
	ActorID   string
	ActorRole string
	EntryID   string
	Now       time.Time
}

type MarkReceivedInput struct {
	ProductID string
	ActorID   string
	EntryID   string
	Now       time.Time
}

type AddNoteInput struct {
	ProductID string
	ActorID   string
	Note      string
	EntryID   string
	Now       time.Time
}

// Repository owns product custody state and the append-only history.
// Every mutating method runs its checks and writes as one atomic unit: a
// failed check leaves product, pending nomination, grants, and history
// untouched.
type Repository interface {
	GetProduct(ctx context.Context, productID string) (entities.Product, error)
	ListHistory(ctx context.Context, productID string) ([]entities.EventEntry, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (entities.Product, error)
	InitiateTransfer(ctx context.Context, input InitiateTransferInput) (entities.Product, error)
	AcceptTransfer(ctx context.Context, input AcceptTransferInput) (entities.Product, error)
	MarkReceived(ctx context.Context, input MarkReceivedInput) (entities.Product, error)
	AddNote(ctx context.Context, input AddNoteInput) (entities.Product, error)
}

// SetViewGrantInput flips one (product, viewer) visibility bit. ActorIsAdmin
// bypasses the current-owner check; ownership itself is verified in-store.
type SetViewGrantInput struct {
	ProductID    string
	ActorID      string
	ActorIsAdmin bool
	Viewer       string
	Granted      bool
	Now          time.Time
}

// ViewGrants is the per-(product, viewer) history visibility list. Grants
// persist across ownership changes and default to false.
type ViewGrants interface {
	SetViewGrant(ctx context.Context, input SetViewGrantInput) error
	HasViewGrant(ctx context.Context, productID string, viewer string) (bool, error)
}

// NotificationPublisher emits one record per successful ledger mutation.
type NotificationPublisher interface {
	Publish(ctx context.Context, event events.Envelope) error
}

// OutboxMessage is a notification row pending relay to the bus.
type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxRepository supports worker relay polling and acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}
