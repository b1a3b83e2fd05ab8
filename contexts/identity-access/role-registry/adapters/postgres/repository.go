package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"provenance/contexts/identity-access/role-registry/domain/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type roleModel struct {
	Identity   string    `gorm:"column:identity;primaryKey"`
	Role       string    `gorm:"column:role;not null"`
	AssignedBy string    `gorm:"column:assigned_by;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null"`
}

func (roleModel) TableName() string { return "registry_roles" }

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

// Migrate creates the registry schema.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&roleModel{})
}

func (r *Repository) GetRole(ctx context.Context, identity string) (entities.Role, error) {
	var row roleModel
	err := r.db.WithContext(ctx).
		Where("identity = ?", identity).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.RoleNone, nil
		}
		return entities.RoleNone, err
	}
	return entities.Role(row.Role), nil
}

func (r *Repository) SetRole(ctx context.Context, assignment entities.Assignment) (entities.Assignment, error) {
	row := roleModel{
		Identity:   assignment.Identity,
		Role:       string(assignment.Role),
		AssignedBy: assignment.AssignedBy,
		UpdatedAt:  assignment.UpdatedAt.UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identity"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "assigned_by", "updated_at"}),
		}).
		Create(&row).
		Error
	if err != nil {
		return entities.Assignment{}, err
	}
	return assignment, nil
}
