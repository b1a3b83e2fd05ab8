package ports

import (
	"context"
	"time"

	"provenance/contexts/identity-access/role-registry/domain/entities"
	"provenance/internal/shared/events"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts notification event id generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Repository owns the identity -> role table.
type Repository interface {
	// GetRole resolves the current role; unassigned identities resolve to
	// entities.RoleNone without error.
	GetRole(ctx context.Context, identity string) (entities.Role, error)
	// SetRole overwrites any existing assignment for the identity.
	SetRole(ctx context.Context, assignment entities.Assignment) (entities.Assignment, error)
}

// NotificationPublisher emits one record per successful registry mutation.
type NotificationPublisher interface {
	Publish(ctx context.Context, event events.Envelope) error
}
