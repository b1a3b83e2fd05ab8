package queries

import (
	"context"
	"log/slog"
	"strings"

	application "provenance/contexts/supply-chain/product-ledger/application"
	"provenance/contexts/supply-chain/product-ledger/domain/entities"
	domainerrors "provenance/contexts/supply-chain/product-ledger/domain/errors"
	"provenance/contexts/supply-chain/product-ledger/ports"
)

// GetProductHistoryQuery reads the full audit history for one product.
// Requires an explicit view grant for the caller; ownership alone is not
// enough, since grants are never auto-issued after creation.
type GetProductHistoryQuery struct {
	ActorID   string
	ProductID string
}

type GetProductHistoryResult struct {
	ProductID string
	Entries   []entities.EventEntry
}

type GetProductHistoryUseCase struct {
	Repository ports.Repository
	Grants     ports.ViewGrants
	Logger     *slog.Logger
}

func (u GetProductHistoryUseCase) Execute(ctx context.Context, query GetProductHistoryQuery) (GetProductHistoryResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(query.ProductID) == "" {
		return GetProductHistoryResult{}, domainerrors.ErrInvalidProductID
	}

	if _, err := u.Repository.GetProduct(ctx, query.ProductID); err != nil {
		return GetProductHistoryResult{}, err
	}

	granted, err := u.Grants.HasViewGrant(ctx, query.ProductID, query.ActorID)
	if err != nil {
		return GetProductHistoryResult{}, err
	}
	if !granted {
		logger.Info("history read denied",
			"event", "ledger_history_denied",
			"module", "supply-chain/product-ledger",
			"layer", "application",
			"product_id", query.ProductID,
			"actor_id", query.ActorID,
		)
		return GetProductHistoryResult{}, domainerrors.ErrUnauthorized
	}

	entries, err := u.Repository.ListHistory(ctx, query.ProductID)
	if err != nil {
		return GetProductHistoryResult{}, err
	}
	return GetProductHistoryResult{ProductID: query.ProductID, Entries: entries}, nil
}
