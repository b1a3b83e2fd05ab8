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

// RevokeViewCommand removes a viewer's access to the product's full audit
// history. Callable by the admin identity or the product's current owner.
type RevokeViewCommand struct {
	ActorID   string
	ProductID string
	Viewer    string
}

type RevokeViewResult struct {
	ProductID string `json:"product_id"`
	Viewer    string `json:"viewer"`
	Granted   bool   `json:"granted"`
}

type RevokeViewUseCase struct {
	Grants        ports.ViewGrants
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Notifications ports.NotificationPublisher
	AdminID       string
	Logger        *slog.Logger
}

func (u RevokeViewUseCase) Execute(ctx context.Context, cmd RevokeViewCommand) (RevokeViewResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.ProductID) == "" {
		return RevokeViewResult{}, domainerrors.ErrInvalidProductID
	}
	if strings.TrimSpace(cmd.Viewer) == "" {
		return RevokeViewResult{}, domainerrors.ErrInvalidViewer
	}

	now := resolveNow(u.Clock)
	err := u.Grants.SetViewGrant(ctx, ports.SetViewGrantInput{
		ProductID:    cmd.ProductID,
		ActorID:      cmd.ActorID,
		ActorIsAdmin: cmd.ActorID == u.AdminID && u.AdminID != "",
		Viewer:       cmd.Viewer,
		Granted:      false,
		Now:          now,
	})
	if err != nil {
		return RevokeViewResult{}, err
	}

	publishLedgerNotification(ctx, u.Notifications, u.IDGenerator, logger,
		events.TypeAccessRevoked, cmd.ProductID, cmd.ActorID, now,
		map[string]string{
			"product_id": cmd.ProductID,
			"viewer":     cmd.Viewer,
		})

	logger.Info("view revoked",
		"event", "ledger_view_revoked",
		"module", "supply-chain/product-ledger",
		"layer", "application",
		"product_id", cmd.ProductID,
		"viewer", cmd.Viewer,
	)
	return RevokeViewResult{ProductID: cmd.ProductID, Viewer: cmd.Viewer, Granted: false}, nil
}
