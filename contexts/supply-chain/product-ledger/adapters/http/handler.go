package httpadapter

import (
	"context"
	"log/slog"

	application "provenance/contexts/supply-chain/product-ledger/application"
	"provenance/contexts/supply-chain/product-ledger/application/commands"
	"provenance/contexts/supply-chain/product-ledger/application/queries"
	"provenance/contexts/supply-chain/product-ledger/domain/entities"
	httptransport "provenance/contexts/supply-chain/product-ledger/transport/http"
)

// Handler maps HTTP DTOs to ledger commands/queries.
type Handler struct {
	CreateProduct    commands.CreateProductUseCase
	InitiateTransfer commands.InitiateTransferUseCase
	AcceptTransfer   commands.AcceptTransferUseCase
	MarkReceived     commands.MarkReceivedUseCase
	AddNote          commands.AddNoteUseCase
	GrantView        commands.GrantViewUseCase
	RevokeView       commands.RevokeViewUseCase
	GetSummary       queries.GetProductSummaryUseCase
	GetHistory       queries.GetProductHistoryUseCase
	Logger           *slog.Logger
}

// CreateProductHandler registers a product under the caller's custody.
func (h Handler) CreateProductHandler(
	ctx context.Context,
	actorID string,
	request httptransport.CreateProductRequest,
) (httptransport.ProductResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("http create product received",
		"event", "ledger_http_create_received",
		"module", "supply-chain/product-ledger",
		"layer", "transport",
		"product_id", request.ProductID,
		"actor_id", actorID,
	)

	result, err := h.CreateProduct.Execute(ctx, commands.CreateProductCommand{
		ActorID:   actorID,
		ProductID: request.ProductID,
		Metadata:  request.Metadata,
	})
	if err != nil {
		return httptransport.ProductResponse{}, err
	}
	return productResponse(result.Product), nil
}

// InitiateTransferHandler nominates a recipient for the product.
func (h Handler) InitiateTransferHandler(
	ctx context.Context,
	actorID string,
	productID string,
	request httptransport.InitiateTransferRequest,
) (httptransport.ProductResponse, error) {
	result, err := h.InitiateTransfer.Execute(ctx, commands.InitiateTransferCommand{
		ActorID:   actorID,
		ProductID: productID,
		Recipient: request.To,
	})
	if err != nil {
		return httptransport.ProductResponse{}, err
	}
	return productResponse(result.Product), nil
}

// AcceptTransferHandler confirms the caller as new owner.
func (h Handler) AcceptTransferHandler(
	ctx context.Context,
	actorID string,
	productID string,
) (httptransport.ProductResponse, error) {
	result, err := h.AcceptTransfer.Execute(ctx, commands.AcceptTransferCommand{
		ActorID:   actorID,
		ProductID: productID,
	})
	if err != nil {
		return httptransport.ProductResponse{}, err
	}
	return productResponse(result.Product), nil
}

// MarkReceivedHandler records final receipt by the current owner.
func (h Handler) MarkReceivedHandler(
	ctx context.Context,
	actorID string,
	productID string,
) (httptransport.ProductResponse, error) {
	result, err := h.MarkReceived.Execute(ctx, commands.MarkReceivedCommand{
		ActorID:   actorID,
		ProductID: productID,
	})
	if err != nil {
		return httptransport.ProductResponse{}, err
	}
	return productResponse(result.Product), nil
}

// AddNoteHandler appends an audit annotation.
func (h Handler) AddNoteHandler(
	ctx context.Context,
	actorID string,
	productID string,
	request httptransport.AddNoteRequest,
) (httptransport.ProductResponse, error) {
	result, err := h.AddNote.Execute(ctx, commands.AddNoteCommand{
		ActorID:   actorID,
		ProductID: productID,
		Note:      request.Note,
	})
	if err != nil {
		return httptransport.ProductResponse{}, err
	}
	return productResponse(result.Product), nil
}

// GrantViewHandler grants history visibility to a viewer.
func (h Handler) GrantViewHandler(
	ctx context.Context,
	actorID string,
	productID string,
	request httptransport.GrantViewRequest,
) (httptransport.ViewGrantResponse, error) {
	result, err := h.GrantView.Execute(ctx, commands.GrantViewCommand{
		ActorID:   actorID,
		ProductID: productID,
		Viewer:    request.Viewer,
	})
	if err != nil {
		return httptransport.ViewGrantResponse{}, err
	}
	return httptransport.ViewGrantResponse{
		ProductID: result.ProductID,
		Viewer:    result.Viewer,
		Granted:   result.Granted,
	}, nil
}

// RevokeViewHandler removes history visibility from a viewer.
func (h Handler) RevokeViewHandler(
	ctx context.Context,
	actorID string,
	productID string,
	viewer string,
) (httptransport.ViewGrantResponse, error) {
	result, err := h.RevokeView.Execute(ctx, commands.RevokeViewCommand{
		ActorID:   actorID,
		ProductID: productID,
		Viewer:    viewer,
	})
	if err != nil {
		return httptransport.ViewGrantResponse{}, err
	}
	return httptransport.ViewGrantResponse{
		ProductID: result.ProductID,
		Viewer:    result.Viewer,
		Granted:   result.Granted,
	}, nil
}

// GetSummaryHandler returns the public custody summary.
func (h Handler) GetSummaryHandler(ctx context.Context, productID string) (httptransport.SummaryResponse, error) {
	summary, err := h.GetSummary.Execute(ctx, queries.GetProductSummaryQuery{ProductID: productID})
	if err != nil {
		return httptransport.SummaryResponse{}, err
	}
	return httptransport.SummaryResponse{
		ProductID: summary.ProductID,
		OwnerID:   summary.OwnerID,
		OwnerRole: summary.OwnerRole,
		Status:    string(summary.Status),
	}, nil
}

// GetHistoryHandler returns the full audit history for a granted viewer.
func (h Handler) GetHistoryHandler(
	ctx context.Context,
	actorID string,
	productID string,
) (httptransport.HistoryResponse, error) {
	result, err := h.GetHistory.Execute(ctx, queries.GetProductHistoryQuery{
		ActorID:   actorID,
		ProductID: productID,
	})
	if err != nil {
		return httptransport.HistoryResponse{}, err
	}

	entries := make([]httptransport.HistoryEntryDTO, 0, len(result.Entries))
	for _, entry := range result.Entries {
		entries = append(entries, httptransport.HistoryEntryDTO{
			EntryID:   entry.EntryID,
			Sequence:  entry.Sequence,
			Timestamp: entry.Timestamp,
			ActorID:   entry.ActorID,
			Action:    string(entry.Action),
			Metadata:  entry.Metadata,
		})
	}
	return httptransport.HistoryResponse{ProductID: result.ProductID, Entries: entries}, nil
}

func productResponse(product entities.Product) httptransport.ProductResponse {
	return httptransport.ProductResponse{
		ProductID:        product.ProductID,
		OwnerID:          product.OwnerID,
		OwnerRole:        product.OwnerRole,
		Status:           string(product.Status),
		PendingRecipient: product.PendingRecipient,
		UpdatedAt:        product.UpdatedAt,
	}
}
