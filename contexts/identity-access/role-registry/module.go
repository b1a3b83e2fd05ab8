package roleregistry

import (
	"context"
	"log/slog"

	eventsadapter "provenance/contexts/identity-access/role-registry/adapters/events"
	httpadapter "provenance/contexts/identity-access/role-registry/adapters/http"
	"provenance/contexts/identity-access/role-registry/adapters/memory"
	"provenance/contexts/identity-access/role-registry/application/commands"
	"provenance/contexts/identity-access/role-registry/application/queries"
	"provenance/contexts/identity-access/role-registry/ports"
)

// Module is the role-registry composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	GetRole queries.GetRoleUseCase
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository    ports.Repository
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Notifications ports.NotificationPublisher
	AdminID       string
	Logger        *slog.Logger
}

// NewModule wires registry use-cases and the transport handler.
func NewModule(deps Dependencies) Module {
	getRole := queries.GetRoleUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}
	assignRole := commands.AssignRoleUseCase{
		Repository:    deps.Repository,
		Clock:         deps.Clock,
		IDGenerator:   deps.IDGenerator,
		Notifications: deps.Notifications,
		AdminID:       deps.AdminID,
		Logger:        deps.Logger,
	}
	revokeRole := commands.RevokeRoleUseCase{
		Repository:    deps.Repository,
		Clock:         deps.Clock,
		IDGenerator:   deps.IDGenerator,
		Notifications: deps.Notifications,
		AdminID:       deps.AdminID,
		Logger:        deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			AssignRole: assignRole,
			RevokeRole: revokeRole,
			GetRole:    getRole,
			Logger:     deps.Logger,
		},
		GetRole: getRole,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(adminID string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:    store,
		Clock:         store,
		IDGenerator:   store,
		Notifications: eventsadapter.LogPublisher{Logger: logger},
		AdminID:       adminID,
		Logger:        logger,
	})
	module.Store = store
	return module
}

// RoleDirectory adapts the registry read side for other contexts without
// exposing registry entity types.
func (m Module) RoleDirectory() func(ctx context.Context, identity string) (string, error) {
	return func(ctx context.Context, identity string) (string, error) {
		result, err := m.GetRole.Execute(ctx, queries.GetRoleQuery{Identity: identity})
		if err != nil {
			return "", err
		}
		return string(result.Role), nil
	}
}
