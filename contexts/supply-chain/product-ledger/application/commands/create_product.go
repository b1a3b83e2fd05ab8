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

// CreateProductCommand registers a new tracked item under the caller's
// custody. Metadata is an opaque string recorded on the first history entry.
type CreateProductCommand struct {
	ActorID   string
	ProductID string
	Metadata  string
}

type CreateProductResult struct {
	Product entities.Product `json:"product"`
}

// CreateProductUseCase requires the caller to hold the manufacturer role.
// On success the caller becomes owner and is auto-granted history visibility
// for this product; this is the only automatic grant that ever happens.
type CreateProductUseCase struct {
	Repository    ports.Repository
	Roles         ports.RoleDirectory
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Notifications ports.NotificationPublisher
	Logger        *slog.Logger
}

func (u CreateProductUseCase) Execute(ctx context.Context, cmd CreateProductCommand) (CreateProductResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.ProductID) == "" {
		return CreateProductResult{}, domainerrors.ErrInvalidProductID
	}

	role, err := u.Roles.RoleOf(ctx, cmd.ActorID)
	if err != nil {
		logger.Error("create product role lookup failed",
			"event", "ledger_create_role_lookup_failed",
			"module", "supply-chain/product-ledger",
			"layer", "application",
			"product_id", cmd.ProductID,
			"actor_id", cmd.ActorID,
			"error", err.Error(),
		)
		return CreateProductResult{}, err
	}
	if role != entities.RoleManufacturer {
		return CreateProductResult{}, domainerrors.ErrRoleMismatch
	}

	entryID, err := newEntryID(ctx, u.IDGenerator)
	if err != nil {
		return CreateProductResult{}, err
	}

	product, err := u.Repository.CreateProduct(ctx, ports.CreateProductInput{
		ProductID: cmd.ProductID,
		OwnerID:   cmd.ActorID,
		OwnerRole: role,
		Metadata:  cmd.Metadata,
		EntryID:   entryID,
		Now:       resolveNow(u.Clock),
	})
	if err != nil {
		return CreateProductResult{}, err
	}

	publishLedgerNotification(ctx, u.Notifications, u.IDGenerator, logger,
		events.TypeProductCreated, product.ProductID, cmd.ActorID, product.CreatedAt,
		map[string]string{
			"product_id": product.ProductID,
			"owner_id":   product.OwnerID,
			"metadata":   cmd.Metadata,
		})

	logger.Info("product created",
		"event", "ledger_product_created",
		"module", "supply-chain/product-ledger",
		"layer", "application",
		"product_id", product.ProductID,
		"owner_id", product.OwnerID,
	)
	return CreateProductResult{Product: product}, nil
}
