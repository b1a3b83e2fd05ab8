package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "provenance/contexts/identity-access/role-registry/application"
	"provenance/contexts/identity-access/role-registry/domain/entities"
	domainerrors "provenance/contexts/identity-access/role-registry/domain/errors"
	"provenance/contexts/identity-access/role-registry/ports"
	"provenance/internal/shared/events"
)

// AssignRoleCommand contains transport-agnostic input for a role assignment.
type AssignRoleCommand struct {
	ActorID  string
	Identity string
	Role     string
}

// AssignRoleResult captures the stored assignment.
type AssignRoleResult struct {
	Assignment entities.Assignment `json:"assignment"`
}

// AssignRoleUseCase overwrites the role held by an identity. Only the
// bootstrap admin may call it; repeating the same assignment is a no-op
// overwrite, never an error.
type AssignRoleUseCase struct {
	Repository    ports.Repository
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Notifications ports.NotificationPublisher
	AdminID       string
	Logger        *slog.Logger
}

func (u AssignRoleUseCase) Execute(ctx context.Context, cmd AssignRoleCommand) (AssignRoleResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if cmd.ActorID != u.AdminID || strings.TrimSpace(u.AdminID) == "" {
		return AssignRoleResult{}, domainerrors.ErrAdminOnly
	}
	if strings.TrimSpace(cmd.Identity) == "" {
		return AssignRoleResult{}, domainerrors.ErrInvalidIdentity
	}
	role, ok := entities.ParseRole(cmd.Role)
	if !ok {
		return AssignRoleResult{}, domainerrors.ErrInvalidRole
	}

	assignment, err := u.Repository.SetRole(ctx, entities.Assignment{
		Identity:   cmd.Identity,
		Role:       role,
		AssignedBy: cmd.ActorID,
		UpdatedAt:  u.now(),
	})
	if err != nil {
		logger.Error("assign role failed",
			"event", "registry_assign_role_failed",
			"module", "identity-access/role-registry",
			"layer", "application",
			"identity", cmd.Identity,
			"role", string(role),
			"error", err.Error(),
		)
		return AssignRoleResult{}, err
	}

	publishRegistryNotification(ctx, u.Notifications, u.IDGenerator, logger, events.Envelope{
		EventType:     events.TypeRoleAssigned,
		SourceService: "provenance",
		OccurredAtUTC: assignment.UpdatedAt,
		EntityType:    "identity",
		EntityID:      assignment.Identity,
		ActorID:       cmd.ActorID,
		Payload: map[string]string{
			"identity": assignment.Identity,
			"role":     string(assignment.Role),
		},
	})

	logger.Info("role assigned",
		"event", "registry_role_assigned",
		"module", "identity-access/role-registry",
		"layer", "application",
		"identity", assignment.Identity,
		"role", string(assignment.Role),
	)
	return AssignRoleResult{Assignment: assignment}, nil
}

func (u AssignRoleUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}

// publishRegistryNotification emits one notification after the commit.
// Failures are logged only; the state change already happened and the core
// does not retry delivery.
func publishRegistryNotification(
	ctx context.Context,
	publisher ports.NotificationPublisher,
	ids ports.IDGenerator,
	logger *slog.Logger,
	event events.Envelope,
) {
	if publisher == nil {
		return
	}
	if ids != nil {
		if id, err := ids.NewID(ctx); err == nil {
			event.EventID = id
		}
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Error("registry notification publish failed",
			"event", "registry_notification_publish_failed",
			"module", "identity-access/role-registry",
			"layer", "application",
			"event_type", event.EventType,
			"entity_id", event.EntityID,
			"error", err.Error(),
		)
	}
}
