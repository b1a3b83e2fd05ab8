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

// MarkReceivedCommand records final receipt by the current owner. No prior
// transfer is required; an owner may self-mark receipt.
type MarkReceivedCommand struct {
	ActorID   string
	ProductID string
}

type MarkReceivedResult struct {
	Product entities.Product `json:"product"`
}

type MarkReceivedUseCase struct {
	Repository    ports.Repository
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Notifications ports.NotificationPublisher
	Logger        *slog.Logger
}

func (u MarkReceivedUseCase) Execute(ctx context.Context, cmd MarkReceivedCommand) (MarkReceivedResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.ProductID) == "" {
		return MarkReceivedResult{}, domainerrors.ErrInvalidProductID
	}

	entryID, err := newEntryID(ctx, u.IDGenerator)
	if err != nil {
		return MarkReceivedResult{}, err
	}

	product, err := u.Repository.MarkReceived(ctx, ports.MarkReceivedInput{
		ProductID: cmd.ProductID,
		ActorID:   cmd.ActorID,
		EntryID:   entryID,
		Now:       resolveNow(u.Clock),
	})
	if err != nil {
		return MarkReceivedResult{}, err
	}

	publishLedgerNotification(ctx, u.Notifications, u.IDGenerator, logger,
		events.TypeProductReceived, product.ProductID, cmd.ActorID, product.UpdatedAt,
		map[string]string{
			"product_id": product.ProductID,
			"owner_id":   product.OwnerID,
		})

	logger.Info("product received",
		"event", "ledger_product_received",
		"module", "supply-chain/product-ledger",
		"layer", "application",
		"product_id", product.ProductID,
		"owner_id", product.OwnerID,
	)
	return MarkReceivedResult{Product: product}, nil
}
