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

// RevokeRoleCommand resets an identity back to the default role.
type RevokeRoleCommand struct {
	ActorID  string
	Identity string
}

// RevokeRoleResult captures the assignment after revocation.
type RevokeRoleResult struct {
	Assignment entities.Assignment `json:"assignment"`
}

// RevokeRoleUseCase sets the identity's role to none. Revoking an identity
// that already holds none succeeds as a no-op.
type RevokeRoleUseCase struct {
	Repository    ports.Repository
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Notifications ports.NotificationPublisher
	AdminID       string
	Logger        *slog.Logger
}

func (u RevokeRoleUseCase) Execute(ctx context.Context, cmd RevokeRoleCommand) (RevokeRoleResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if cmd.ActorID != u.AdminID || strings.TrimSpace(u.AdminID) == "" {
		return RevokeRoleResult{}, domainerrors.ErrAdminOnly
	}
	if strings.TrimSpace(cmd.Identity) == "" {
		return RevokeRoleResult{}, domainerrors.ErrInvalidIdentity
	}

	assignment, err := u.Repository.SetRole(ctx, entities.Assignment{
		Identity:   cmd.Identity,
		Role:       entities.RoleNone,
		AssignedBy: cmd.ActorID,
		UpdatedAt:  u.now(),
	})
	if err != nil {
		logger.Error("revoke role failed",
			"event", "registry_revoke_role_failed",
			"module", "identity-access/role-registry",
			"layer", "application",
			"identity", cmd.Identity,
			"error", err.Error(),
		)
		return RevokeRoleResult{}, err
	}

	publishRegistryNotification(ctx, u.Notifications, u.IDGenerator, logger, events.Envelope{
		EventType:     events.TypeRoleRevoked,
		SourceService: "provenance",
		OccurredAtUTC: assignment.UpdatedAt,
		EntityType:    "identity",
		EntityID:      assignment.Identity,
		ActorID:       cmd.ActorID,
		Payload: map[string]string{
			"identity": assignment.Identity,
		},
	})

	logger.Info("role revoked",
		"event", "registry_role_revoked",
		"module", "identity-access/role-registry",
		"layer", "application",
		"identity", assignment.Identity,
	)
	return RevokeRoleResult{Assignment: assignment}, nil
}

func (u RevokeRoleUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
