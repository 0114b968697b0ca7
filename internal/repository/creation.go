package repository

import (
	"context"
	"pixa-backend/internal/model"

	"gorm.io/gorm"
)

type CreationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, creation *model.Creation) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.Creation, error)
	// MarkRefunded flags a creation after an automatic refund. The row is
	// kept; refunded assets are tombstoned, not deleted.
	MarkRefunded(ctx context.Context, tx *gorm.DB, creationID, userID string) error
}

type creationRepoImpl struct {
	db *gorm.DB
}

func NewCreationRepository(db *gorm.DB) CreationRepository {
	return &creationRepoImpl{
		db: db,
	}
}

func (r *creationRepoImpl) Create(ctx context.Context, tx *gorm.DB, creation *model.Creation) error {
	return tx.WithContext(ctx).Create(creation).Error
}

func (r *creationRepoImpl) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Creation, error) {
	var creations []*model.Creation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&creations).Error

	if err != nil {
		return nil, err
	}

	return creations, nil
}

func (r *creationRepoImpl) MarkRefunded(ctx context.Context, tx *gorm.DB, creationID, userID string) error {
	return tx.WithContext(ctx).
		Model(&model.Creation{}).
		Where("id = ? AND user_id = ?", creationID, userID).
		Update("refunded", true).Error
}
