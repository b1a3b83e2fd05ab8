package commands

import (
	"context"
	"log/slog"
	"strings"

	application "provenance/contexts/supply-chain/product-ledger/application"
	domainerrors "provenance/contexts/supply-chain/product-ledger/domain/errors"
	"provenance/contexts/supply-chain/product-ledger/ports"
	"provenance/internal/shared/events"
)

// GrantViewCommand grants a viewer read access to the product's full audit
// history. Callable by the admin identity or the product's current owner.
type GrantViewCommand struct {
	ActorID   string
	ProductID string
	Viewer    string
}

type GrantViewResult struct {
	ProductID string `json:"product_id"`
	Viewer    string `json:"viewer"`
	Granted   bool   `json:"granted"`
}

type GrantViewUseCase struct {
	Grants        ports.ViewGrants
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Notifications ports.NotificationPublisher
	AdminID       string
	Logger        *slog.Logger
}

func (u GrantViewUseCase) Execute(ctx context.Context, cmd GrantViewCommand) (GrantViewResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.ProductID) == "" {
		return GrantViewResult{}, domainerrors.ErrInvalidProductID
	}
	if strings.TrimSpace(cmd.Viewer) == "" {
		return GrantViewResult{}, domainerrors.ErrInvalidViewer
	}

	now := resolveNow(u.Clock)
	err := u.Grants.SetViewGrant(ctx, ports.SetViewGrantInput{
		ProductID:    cmd.ProductID,
		ActorID:      cmd.ActorID,
		ActorIsAdmin: cmd.ActorID == u.AdminID && u.AdminID != "",
		Viewer:       cmd.Viewer,
		Granted:      true,
		Now:          now,
	})
	if err != nil {
		return GrantViewResult{}, err
	}

	publishLedgerNotification(ctx, u.Notifications, u.IDGenerator, logger,
		events.TypeAccessGranted, cmd.ProductID, cmd.ActorID, now,
		map[string]string{
			"product_id": cmd.ProductID,
			"viewer":     cmd.Viewer,
		})

	logger.Info("view granted",
		"event", "ledger_view_granted",
		"module", "supply-chain/product-ledger",
		"layer", "application",
		"product_id", cmd.ProductID,
		"viewer", cmd.Viewer,
	)
	return GrantViewResult{ProductID: cmd.ProductID, Viewer: cmd.Viewer, Granted: true}, nil
}
