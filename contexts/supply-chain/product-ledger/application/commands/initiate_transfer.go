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

// InitiateTransferCommand nominates a recipient for the product. Only the
// current owner may nominate.
type InitiateTransferCommand struct {
	ActorID   string
	ProductID string
	Recipient string
}

type InitiateTransferResult struct {
	Product entities.Product `json:"product"`
}

// InitiateTransferUseCase starts the first phase of the two-phase transfer:
// the nomination persists until the recipient accepts, or until the owner
// overwrites it with a fresh nomination (permitted while AllowReoffer holds).
type InitiateTransferUseCase struct {
	Repository    ports.Repository
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Notifications ports.NotificationPublisher
	AllowReoffer  bool
	Logger        *slog.Logger
}

func (u InitiateTransferUseCase) Execute(ctx context.Context, cmd InitiateTransferCommand) (InitiateTransferResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.ProductID) == "" {
		return InitiateTransferResult{}, domainerrors.ErrInvalidProductID
	}
	if strings.TrimSpace(cmd.Recipient) == "" {
		return InitiateTransferResult{}, domainerrors.ErrInvalidRecipient
	}

	entryID, err := newEntryID(ctx, u.IDGenerator)
	if err != nil {
		return InitiateTransferResult{}, err
	}

	product, err := u.Repository.InitiateTransfer(ctx, ports.InitiateTransferInput{
		ProductID:    cmd.ProductID,
		ActorID:      cmd.ActorID,
		Recipient:    cmd.Recipient,
		AllowReoffer: u.AllowReoffer,
		EntryID:      entryID,
		Now:          resolveNow(u.Clock),
	})
	if err != nil {
		return InitiateTransferResult{}, err
	}

	publishLedgerNotification(ctx, u.Notifications, u.IDGenerator, logger,
		events.TypeTransferInitiated, product.ProductID, cmd.ActorID, product.UpdatedAt,
		map[string]string{
			"product_id": product.ProductID,
			"from":       cmd.ActorID,
			"to":         cmd.Recipient,
		})

	logger.Info("transfer initiated",
		"event", "ledger_transfer_initiated",
		"module", "supply-chain/product-ledger",
		"layer", "application",
		"product_id", product.ProductID,
		"owner_id", cmd.ActorID,
		"recipient", cmd.Recipient,
	)
	return InitiateTransferResult{Product: product}, nil
}
