package productledger

import (
	"log/slog"

	eventsadapter "provenance/contexts/supply-chain/product-ledger/adapters/events"
	httpadapter "provenance/contexts/supply-chain/product-ledger/adapters/http"
	"provenance/contexts/supply-chain/product-ledger/adapters/memory"
	"provenance/contexts/supply-chain/product-ledger/application/commands"
	"provenance/contexts/supply-chain/product-ledger/application/queries"
	"provenance/contexts/supply-chain/product-ledger/ports"
)

// Module is the product-ledger composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository           ports.Repository
	Grants               ports.ViewGrants
	Roles                ports.RoleDirectory
	Clock                ports.Clock
	IDGenerator          ports.IDGenerator
	Notifications        ports.NotificationPublisher
	AdminID              string
	AllowTransferReoffer bool
	Logger               *slog.Logger
}

// NewModule wires ledger use-cases and the transport handler using explicit
// ports.
func NewModule(deps Dependencies) Module {
	handler := httpadapter.Handler{
		CreateProduct: commands.CreateProductUseCase{
			Repository:    deps.Repository,
			Roles:         deps.Roles,
			Clock:         deps.Clock,
			IDGenerator:   deps.IDGenerator,
			Notifications: deps.Notifications,
			Logger:        deps.Logger,
		},
		InitiateTransfer: commands.InitiateTransferUseCase{
			Repository:    deps.Repository,
			Clock:         deps.Clock,
			IDGenerator:   deps.IDGenerator,
			Notifications: deps.Notifications,
			AllowReoffer:  deps.AllowTransferReoffer,
			Logger:        deps.Logger,
		},
		AcceptTransfer: commands.AcceptTransferUseCase{
			Repository:    deps.Repository,
			Roles:         deps.Roles,
			Clock:         deps.Clock,
			IDGenerator:   deps.IDGenerator,
			Notifications: deps.Notifications,
			Logger:        deps.Logger,
		},
		MarkReceived: commands.MarkReceivedUseCase{
			Repository:    deps.Repository,
			Clock:         deps.Clock,
			IDGenerator:   deps.IDGenerator,
			Notifications: deps.Notifications,
			Logger:        deps.Logger,
		},
		AddNote: commands.AddNoteUseCase{
			Repository:    deps.Repository,
			Clock:         deps.Clock,
			IDGenerator:   deps.IDGenerator,
			Notifications: deps.Notifications,
			Logger:        deps.Logger,
		},
		GrantView: commands.GrantViewUseCase{
			Grants:        deps.Grants,
			Clock:         deps.Clock,
			IDGenerator:   deps.IDGenerator,
			Notifications: deps.Notifications,
			AdminID:       deps.AdminID,
			Logger:        deps.Logger,
		},
		RevokeView: commands.RevokeViewUseCase{
			Grants:        deps.Grants,
			Clock:         deps.Clock,
			IDGenerator:   deps.IDGenerator,
			Notifications: deps.Notifications,
			AdminID:       deps.AdminID,
			Logger:        deps.Logger,
		},
		GetSummary: queries.GetProductSummaryUseCase{
			Repository: deps.Repository,
			Logger:     deps.Logger,
		},
		GetHistory: queries.GetProductHistoryUseCase{
			Repository: deps.Repository,
			Grants:     deps.Grants,
			Logger:     deps.Logger,
		},
		Logger: deps.Logger,
	}

	return Module{Handler: handler}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters. Role lookups are served by the supplied directory.
func NewInMemoryModule(roles ports.RoleDirectory, adminID string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:           store,
		Grants:               store,
		Roles:                roles,
		Clock:                store,
		IDGenerator:          store,
		Notifications:        eventsadapter.LogPublisher{Logger: logger},
		AdminID:              adminID,
		AllowTransferReoffer: true,
		Logger:               logger,
	})
	module.Store = store
	return module
}
