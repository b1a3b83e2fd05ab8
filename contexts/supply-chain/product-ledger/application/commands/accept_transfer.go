package commands

import (
	"context"
	"log/slog"
	"strings"

	application "provenance/contexts/supply-chain/product-ledger/application"
	"provenance/contexts/supply-chain/product-ledger/domain/entities"
	domainerrors "provenance/contexts/supply-chain/product-ledger/domain/errors"
	"provenance/contexts/supply-chain/product-ledger/ports"
	"provenance/internal/shared/events"
)

// AcceptTransferCommand confirms the caller as the new owner. The caller must
// be the currently nominated recipient.
type AcceptTransferCommand struct {
	ActorID   string
	ProductID string
}

type AcceptTransferResult struct {
	Product entities.Product `json:"product"`
}

// AcceptTransferUseCase completes the second phase of the transfer: ownership
// moves to the caller, the owner-role snapshot is refreshed from the registry,
// and the nomination clears atomically with the ownership change. Acceptance
// does not require the product to be in transit.
type AcceptTransferUseCase struct {
	Repository    ports.Repository
	Roles         ports.RoleDirectory
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Notifications ports.NotificationPublisher
	Logger        *slog.Logger
}

func (u AcceptTransferUseCase) Execute(ctx context.Context, cmd AcceptTransferCommand) (AcceptTransferResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.ProductID) == "" {
		return AcceptTransferResult{}, domainerrors.ErrInvalidProductID
	}

	role, err := u.Roles.RoleOf(ctx, cmd.ActorID)
	if err != nil {
		logger.Error("accept transfer role lookup failed",
			"event", "ledger_accept_role_lookup_failed",
			"module", "supply-chain/product-ledger",
			"layer", "application",
			"product_id", cmd.ProductID,
			"actor_id", cmd.ActorID,
			"error", err.Error(),
		)
		return AcceptTransferResult{}, err
	}

	entryID, err := newEntryID(ctx, u.IDGenerator)
	if err != nil {
		return AcceptTransferResult{}, err
	}

	product, err := u.Repository.AcceptTransfer(ctx, ports.AcceptTransferInput{
		ProductID: cmd.ProductID,
		ActorID:   cmd.ActorID,
		ActorRole: role,
		EntryID:   entryID,
		Now:       resolveNow(u.Clock),
	})
	if err != nil {
		return AcceptTransferResult{}, err
	}

	publishLedgerNotification(ctx, u.Notifications, u.IDGenerator, logger,
		events.TypeTransferAccepted, product.ProductID, cmd.ActorID, product.UpdatedAt,
		map[string]string{
			"product_id": product.ProductID,
			"owner_id":   product.OwnerID,
			"owner_role": product.OwnerRole,
		})

	logger.Info("transfer accepted",
		"event", "ledger_transfer_accepted",
		"module", "supply-chain/product-ledger",
		"layer", "application",
		"product_id", product.ProductID,
		"owner_id", product.OwnerID,
	)
	return AcceptTransferResult{Product: product}, nil
}
