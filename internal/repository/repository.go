package repository

import (
	"context"
	"fmt"

	"sports-auction/internal/apperr"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx runs fn inside a transaction. The repository passed to fn is bound
// to the transaction; fn must not use the outer repository.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// updateVersioned writes every column of model if the stored version still
// equals *version, then bumps it. A stale version yields apperr.ErrConflict.
func (r *Repository) updateVersioned(ctx context.Context, model interface{}, version *int64) error {
	current := *version
	*version = current + 1

	result := r.db.WithContext(ctx).
		Model(model).
		Where("version = ?", current).
		Select("*").
		Omit("id", "created_at").
		Updates(model)

	if result.Error != nil {
		*version = current
		return fmt.Errorf("failed to update %T: %w", model, result.Error)
	}
	if result.RowsAffected == 0 {
		*version = current
		return apperr.ErrConflict
	}
	return nil
}
