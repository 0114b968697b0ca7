package repository

import (
	"context"
	"pixa-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LedgerRepository interface {
	Get(ctx context.Context, userID string) (*model.UserLedger, error)
	// GetForUpdate reads the ledger row with a pessimistic lock. Must be
	// called inside a transaction; every balance mutation goes through it.
	GetForUpdate(ctx context.Context, tx *gorm.DB, userID string) (*model.UserLedger, error)
	Create(ctx context.Context, tx *gorm.DB, ledger *model.UserLedger) error
	Save(ctx context.Context, tx *gorm.DB, ledger *model.UserLedger) error
}

type ledgerRepoImpl struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepoImpl{
		db: db,
	}
}

func (r *ledgerRepoImpl) Get(ctx context.Context, userID string) (*model.UserLedger, error) {
	var ledger model.UserLedger
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&ledger).Error

	if err != nil {
		return nil, err
	}

	return &ledger, nil
}

func (r *ledgerRepoImpl) GetForUpdate(ctx context.Context, tx *gorm.DB, userID string) (*model.UserLedger, error) {
	var ledger model.UserLedger
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&ledger).Error

	if err != nil {
		return nil, err
	}

	return &ledger, nil
}

func (r *ledgerRepoImpl) Create(ctx context.Context, tx *gorm.DB, ledger *model.UserLedger) error {
	return tx.WithContext(ctx).Create(ledger).Error
}

func (r *ledgerRepoImpl) Save(ctx context.Context, tx *gorm.DB, ledger *model.UserLedger) error {
	return tx.WithContext(ctx).Save(ledger).Error
}
