package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"provenance/contexts/supply-chain/product-ledger/domain/entities"
	domainerrors "provenance/contexts/supply-chain/product-ledger/domain/errors"
	"provenance/contexts/supply-chain/product-ledger/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

// Repository is the durable ledger adapter. Each mutating method runs inside
// one transaction with the product row locked, so the check-then-mutate
// sequence stays atomic under concurrent callers.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

// Migrate creates the ledger schema.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&productModel{}, &historyModel{}, &viewGrantModel{}, &outboxModel{})
}

func (r *Repository) GetProduct(ctx context.Context, productID string) (entities.Product, error) {
	var row productModel
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Product{}, domainerrors.ErrProductNotFound
		}
		return entities.Product{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListHistory(ctx context.Context, productID string) ([]entities.EventEntry, error) {
	if _, err := r.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	var rows []historyModel
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("sequence ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	entries := make([]entities.EventEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toEntity())
	}
	return entries, nil
}

func (r *Repository) CreateProduct(ctx context.Context, input ports.CreateProductInput) (entities.Product, error) {
	row := productModel{
		ProductID: input.ProductID,
		OwnerID:   input.OwnerID,
		OwnerRole: input.OwnerRole,
		Status:    string(entities.StatusCreated),
		CreatedAt: input.Now.UTC(),
		UpdatedAt: input.Now.UTC(),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrProductAlreadyExists
			}
			return err
		}
		if err := appendHistory(tx, input.ProductID, input.EntryID, input.Now, input.OwnerID, entities.ActionCreated, input.Metadata); err != nil {
			return err
		}
		grant := viewGrantModel{
			ProductID: input.ProductID,
			Viewer:    input.OwnerID,
			GrantedBy: input.OwnerID,
			UpdatedAt: input.Now.UTC(),
		}
		return tx.Create(&grant).Error
	})
	if err != nil {
		return entities.Product{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) InitiateTransfer(ctx context.Context, input ports.InitiateTransferInput) (entities.Product, error) {
	var result entities.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := lockProduct(tx, input.ProductID)
		if err != nil {
			return err
		}
		if row.OwnerID != input.ActorID {
			return domainerrors.ErrNotOwner
		}
		if row.PendingRecipient != "" && !input.AllowReoffer {
			return domainerrors.ErrTransferAlreadyPending
		}

		row.PendingRecipient = input.Recipient
		row.Status = string(entities.StatusInTransit)
		row.UpdatedAt = input.Now.UTC()
		if err := saveProduct(tx, row); err != nil {
			return err
		}
		if err := appendHistory(tx, input.ProductID, input.EntryID, input.Now, input.ActorID, entities.ActionTransferInitiated, input.Recipient); err != nil {
			return err
		}
		result = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.Product{}, err
	}
	return result, nil
}

func (r *Repository) AcceptTransfer(ctx context.Context, input ports.AcceptTransferInput) (entities.Product, error) {
	var result entities.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := lockProduct(tx, input.ProductID)
		if err != nil {
			return err
		}
		if row.PendingRecipient == "" || row.PendingRecipient != input.ActorID {
			return domainerrors.ErrNoPendingTransferForCaller
		}

		row.OwnerID = input.ActorID
		row.OwnerRole = input.ActorRole
		row.PendingRecipient = ""
		row.UpdatedAt = input.Now.UTC()
		if err := saveProduct(tx, row); err != nil {
			return err
		}
		if err := appendHistory(tx, input.ProductID, input.EntryID, input.Now, input.ActorID, entities.ActionTransferAccepted, ""); err != nil {
			return err
		}
		result = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.Product{}, err
	}
	return result, nil
}

func (r *Repository) MarkReceived(ctx context.Context, input ports.MarkReceivedInput) (entities.Product, error) {
	var result entities.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := lockProduct(tx, input.ProductID)
		if err != nil {
			return err
		}
		if row.OwnerID != input.ActorID {
			return domainerrors.ErrNotOwner
		}

		row.Status = string(entities.StatusReceived)
		row.UpdatedAt = input.Now.UTC()
		if err := saveProduct(tx, row); err != nil {
			return err
		}
		if err := appendHistory(tx, input.ProductID, input.EntryID, input.Now, input.ActorID, entities.ActionReceived, ""); err != nil {
			return err
		}
		result = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.Product{}, err
	}
	return result, nil
}

func (r *Repository) AddNote(ctx context.Context, input ports.AddNoteInput) (entities.Product, error) {
	var result entities.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := lockProduct(tx, input.ProductID)
		if err != nil {
			return err
		}
		if row.OwnerID != input.ActorID {
			return domainerrors.ErrNotOwner
		}

		row.UpdatedAt = input.Now.UTC()
		if err := saveProduct(tx, row); err != nil {
			return err
		}
		if err := appendHistory(tx, input.ProductID, input.EntryID, input.Now, input.ActorID, entities.ActionNote, input.Note); err != nil {
			return err
		}
		result = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.Product{}, err
	}
	return result, nil
}

func (r *Repository) SetViewGrant(ctx context.Context, input ports.SetViewGrantInput) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := lockProduct(tx, input.ProductID)
		if err != nil {
			return err
		}
		if !input.ActorIsAdmin && row.OwnerID != input.ActorID {
			return domainerrors.ErrUnauthorized
		}

		if !input.Granted {
			return tx.
				Where("product_id = ? AND viewer = ?", input.ProductID, input.Viewer).
				Delete(&viewGrantModel{}).
				Error
		}
		grant := viewGrantModel{
			ProductID: input.ProductID,
			Viewer:    input.Viewer,
			GrantedBy: input.ActorID,
			UpdatedAt: input.Now.UTC(),
		}
		return tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "product_id"}, {Name: "viewer"}},
				DoUpdates: clause.AssignmentColumns([]string{"granted_by", "updated_at"}),
			}).
			Create(&grant).
			Error
	})
}

func (r *Repository) HasViewGrant(ctx context.Context, productID string, viewer string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&viewGrantModel{}).
		Where("product_id = ? AND viewer = ?", productID, viewer).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt,
		})
	}
	return messages, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	published := publishedAt.UTC()
	return r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": &published,
		}).
		Error
}

func lockProduct(tx *gorm.DB, productID string) (productModel, error) {
	var row productModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return productModel{}, domainerrors.ErrProductNotFound
		}
		return productModel{}, err
	}
	return row, nil
}

func saveProduct(tx *gorm.DB, row productModel) error {
	return tx.Model(&productModel{}).
		Where("product_id = ?", row.ProductID).
		Updates(map[string]any{
			"owner_id":          row.OwnerID,
			"owner_role":        row.OwnerRole,
			"status":            row.Status,
			"pending_recipient": row.PendingRecipient,
			"updated_at":        row.UpdatedAt,
		}).
		Error
}

func appendHistory(
	tx *gorm.DB,
	productID string,
	entryID string,
	now time.Time,
	actorID string,
	action entities.EventAction,
	metadata string,
) error {
	var next int64
	if err := tx.Model(&historyModel{}).
		Where("product_id = ?", productID).
		Count(&next).
		Error; err != nil {
		return err
	}
	entry := historyModel{
		EntryID:   entryID,
		ProductID: productID,
		Sequence:  int(next) + 1,
		Timestamp: now.UTC(),
		ActorID:   actorID,
		Action:    string(action),
		Metadata:  metadata,
	}
	return tx.Create(&entry).Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
