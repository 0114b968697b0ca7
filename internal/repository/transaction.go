package repository

import (
	"context"
	"pixa-backend/internal/model"

	"gorm.io/gorm"
)

type TransactionRepository interface {
	Append(ctx context.Context, tx *gorm.DB, entry *model.CreditTransaction) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.CreditTransaction, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type transactionRepoImpl struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepoImpl{
		db: db,
	}
}

func (r *transactionRepoImpl) Append(ctx context.Context, tx *gorm.DB, entry *model.CreditTransaction) error {
	return tx.WithContext(ctx).Create(entry).Error
}

func (r *transactionRepoImpl) ListByUser(ctx context.Context, userID string, limit int) ([]*model.CreditTransaction, error) {
	var entries []*model.CreditTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&entries).Error

	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *transactionRepoImpl) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CreditTransaction{}).
		Where("user_id = ?", userID).
		Count(&count).Error

	return count, err
}
