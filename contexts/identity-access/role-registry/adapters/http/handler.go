package httpadapter

import (
	"context"
	"log/slog"

	application "provenance/contexts/identity-access/role-registry/application"
	"provenance/contexts/identity-access/role-registry/application/commands"
	"provenance/contexts/identity-access/role-registry/application/queries"
	httptransport "provenance/contexts/identity-access/role-registry/transport/http"
)

// Handler maps HTTP DTOs to registry commands/queries.
type Handler struct {
	AssignRole commands.AssignRoleUseCase
	RevokeRole commands.RevokeRoleUseCase
	GetRole    queries.GetRoleUseCase
	Logger     *slog.Logger
}

// AssignRoleHandler overwrites the role held by an identity.
func (h Handler) AssignRoleHandler(
	ctx context.Context,
	actorID string,
	identity string,
	request httptransport.AssignRoleRequest,
) (httptransport.AssignRoleResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("http assign role received",
		"event", "registry_http_assign_received",
		"module", "identity-access/role-registry",
		"layer", "transport",
		"identity", identity,
		"role", request.Role,
	)

	result, err := h.AssignRole.Execute(ctx, commands.AssignRoleCommand{
		ActorID:  actorID,
		Identity: identity,
		Role:     request.Role,
	})
	if err != nil {
		return httptransport.AssignRoleResponse{}, err
	}
	return httptransport.AssignRoleResponse{
		Identity:  result.Assignment.Identity,
		Role:      string(result.Assignment.Role),
		UpdatedAt: result.Assignment.UpdatedAt,
	}, nil
}

// RevokeRoleHandler resets an identity to the default role.
func (h Handler) RevokeRoleHandler(
	ctx context.Context,
	actorID string,
	identity string,
) (httptransport.RevokeRoleResponse, error) {
	result, err := h.RevokeRole.Execute(ctx, commands.RevokeRoleCommand{
		ActorID:  actorID,
		Identity: identity,
	})
	if err != nil {
		return httptransport.RevokeRoleResponse{}, err
	}
	return httptransport.RevokeRoleResponse{
		Identity:  result.Assignment.Identity,
		Role:      string(result.Assignment.Role),
		UpdatedAt: result.Assignment.UpdatedAt,
	}, nil
}

// GetRoleHandler returns the current role of an identity.
func (h Handler) GetRoleHandler(ctx context.Context, identity string) (httptransport.GetRoleResponse, error) {
	result, err := h.GetRole.Execute(ctx, queries.GetRoleQuery{Identity: identity})
	if err != nil {
		return httptransport.GetRoleResponse{}, err
	}
	return httptransport.GetRoleResponse{
		Identity: result.Identity,
		Role:     string(result.Role),
	}, nil
}
