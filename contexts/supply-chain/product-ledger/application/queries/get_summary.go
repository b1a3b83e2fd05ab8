package queries

import (
	"context"
	"log/slog"
	"strings"

	"provenance/contexts/supply-chain/product-ledger/domain/entities"
	domainerrors "provenance/contexts/supply-chain/product-ledger/domain/errors"
	"provenance/contexts/supply-chain/product-ledger/ports"
)

// GetProductSummaryQuery reads the public custody summary. Deliberately
// unprotected: any caller may read it once the product exists.
type GetProductSummaryQuery struct {
	ProductID string
}

type ProductSummary struct {
	ProductID string
	OwnerID   string
	OwnerRole string
	Status    entities.Status
}

type GetProductSummaryUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (u GetProductSummaryUseCase) Execute(ctx context.Context, query GetProductSummaryQuery) (ProductSummary, error) {
	if strings.TrimSpace(query.ProductID) == "" {
		return ProductSummary{}, domainerrors.ErrInvalidProductID
	}
	product, err := u.Repository.GetProduct(ctx, query.ProductID)
	if err != nil {
		return ProductSummary{}, err
	}
	return ProductSummary{
		ProductID: product.ProductID,
		OwnerID:   product.OwnerID,
		OwnerRole: product.OwnerRole,
		Status:    product.Status,
	}, nil
}
