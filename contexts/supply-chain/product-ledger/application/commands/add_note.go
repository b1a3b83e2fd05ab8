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

// AddNoteCommand appends a free-form audit annotation. The note is opaque and
// passed through unmodified; status and ownership are unaffected.
type AddNoteCommand struct {
	ActorID   string
	ProductID string
	Note      string
}

type AddNoteResult struct {
	Product entities.Product `json:"product"`
}

type AddNoteUseCase struct {
	Repository    ports.Repository
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Notifications ports.NotificationPublisher
	Logger        *slog.Logger
}

func (u AddNoteUseCase) Execute(ctx context.Context, cmd AddNoteCommand) (AddNoteResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.ProductID) == "" {
		return AddNoteResult{}, domainerrors.ErrInvalidProductID
	}

	entryID, err := newEntryID(ctx, u.IDGenerator)
	if err != nil {
		return AddNoteResult{}, err
	}

	product, err := u.Repository.AddNote(ctx, ports.AddNoteInput{
		ProductID: cmd.ProductID,
		ActorID:   cmd.ActorID,
		Note:      cmd.Note,
		EntryID:   entryID,
		Now:       resolveNow(u.Clock),
	})
	if err != nil {
		return AddNoteResult{}, err
	}

	publishLedgerNotification(ctx, u.Notifications, u.IDGenerator, logger,
		events.TypeNoteAdded, product.ProductID, cmd.ActorID, product.UpdatedAt,
		map[string]string{
			"product_id": product.ProductID,
			"note":       cmd.Note,
		})

	logger.Info("note added",
		"event", "ledger_note_added",
		"module", "supply-chain/product-ledger",
		"layer", "application",
		"product_id", product.ProductID,
		"owner_id", product.OwnerID,
	)
	return AddNoteResult{Product: product}, nil
}
