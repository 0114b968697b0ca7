package repository

import (
	"context"
	"pixa-backend/internal/model"

	"gorm.io/gorm"
)

type PurchaseRepository interface {
	// Exists reports whether a payment id has already been reconciled.
	// Called inside the reconciliation transaction as the dedup check.
	Exists(ctx context.Context, tx *gorm.DB, paymentID string) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, purchase *model.Purchase) error
	Get(ctx context.Context, paymentID string) (*model.Purchase, error)
}

type purchaseRepoImpl struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepoImpl{
		db: db,
	}
}

func (r *purchaseRepoImpl) Exists(ctx context.Context, tx *gorm.DB, paymentID string) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&model.Purchase{}).
		Where("payment_id = ?", paymentID).
		Count(&count).Error

	return count > 0, err
}

func (r *purchaseRepoImpl) Create(ctx context.Context, tx *gorm.DB, purchase *model.Purchase) error {
	return tx.WithContext(ctx).Create(purchase).Error
}

func (r *purchaseRepoImpl) Get(ctx context.Context, paymentID string) (*model.Purchase, error) {
	var purchase model.Purchase
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		First(&purchase).Error

	if err != nil {
		return nil, err
	}

	return &purchase, nil
}
