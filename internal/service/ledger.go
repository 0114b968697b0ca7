package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pixa-backend/internal/dto"
	"pixa-backend/internal/model"
	"pixa-backend/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInsufficientCredits = errors.New("insufficient credits")

// milestoneBonuses maps a lifetime-generation count to the credits granted
// when a debit pushes the counter onto it.
var milestoneBonuses = map[int]int{
	50:   25,
	250:  100,
	1000: 500,
}

type LedgerService interface {
	// Bootstrap creates the ledger for a new user with the signup bonus.
	// Idempotent, repeated calls return the existing snapshot.
	Bootstrap(ctx context.Context, userID string) (*dto.LedgerSnapshot, error)
	// Debit spends credits for one generation and returns the updated
	// snapshot. Fails without mutation when the balance is too low.
	Debit(ctx context.Context, userID string, cost int, feature string) (*dto.LedgerSnapshot, error)
	// DebitInTx is Debit's body for callers composing a larger transaction.
	DebitInTx(ctx context.Context, tx *gorm.DB, userID string, cost int, feature string) (*dto.LedgerSnapshot, error)
	Snapshot(ctx context.Context, userID string) (*dto.LedgerSnapshot, error)
	History(ctx context.Context, userID string, limit int) ([]*dto.TransactionEntry, error)
}

type ledgerServiceImpl struct {
	db          *gorm.DB
	log         *zap.Logger
	signupBonus int
	ledgerRepo  repository.LedgerRepository
	txRepo      repository.TransactionRepository
}

func NewLedgerService(
	db *gorm.DB,
	log *zap.Logger,
	signupBonus int,
	ledgerRepo repository.LedgerRepository,
	txRepo repository.TransactionRepository,
) LedgerService {
	return &ledgerServiceImpl{
		db:          db,
		log:         log.Named("ledger"),
		signupBonus: signupBonus,
		ledgerRepo:  ledgerRepo,
		txRepo:      txRepo,
	}
}

func (s *ledgerServiceImpl) Bootstrap(ctx context.Context, userID string) (*dto.LedgerSnapshot, error) {
	var ledger *model.UserLedger

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.ledgerRepo.GetForUpdate(ctx, tx, userID)
		if err == nil {
			ledger = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("read user ledger: %w", err)
		}

		now := time.Now().UTC()
		ledger = &model.UserLedger{
			UserID:               userID,
			Credits:              s.signupBonus,
			TotalCreditsAcquired: s.signupBonus,
			Plan:                 "Free",
		}
		if err := s.ledgerRepo.Create(ctx, tx, ledger); err != nil {
			return fmt.Errorf("create user ledger: %w", err)
		}

		return s.txRepo.Append(ctx, tx, &model.CreditTransaction{
			UserID:       userID,
			Feature:      "Welcome Bonus",
			CreditChange: fmt.Sprintf("+%d", s.signupBonus),
			Date:         now,
			Method:       "signup",
		})
	})

	if err != nil {
		return nil, err
	}

	return snapshotOf(ledger), nil
}

func (s *ledgerServiceImpl) Debit(ctx context.Context, userID string, cost int, feature string) (*dto.LedgerSnapshot, error) {
	var snapshot *dto.LedgerSnapshot

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		snapshot, err = s.DebitInTx(ctx, tx, userID, cost, feature)
		return err
	})

	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (s *ledgerServiceImpl) DebitInTx(ctx context.Context, tx *gorm.DB, userID string, cost int, feature string) (*dto.LedgerSnapshot, error) {
	if cost <= 0 {
		return nil, fmt.Errorf("debit cost must be positive")
	}

	ledger, err := s.ledgerRepo.GetForUpdate(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("read user ledger: %w", err)
	}

	if ledger.Credits < cost {
		return nil, ErrInsufficientCredits
	}

	now := time.Now().UTC()

	ledger.Credits -= cost
	ledger.LifetimeGenerations++

	entries := []*model.CreditTransaction{{
		UserID:       userID,
		Feature:      feature,
		CreditChange: fmt.Sprintf("-%d", cost),
		Date:         now,
		Method:       "app",
	}}

	if bonus, ok := milestoneBonuses[ledger.LifetimeGenerations]; ok {
		ledger.Credits += bonus
		ledger.TotalCreditsAcquired += bonus
		entries = append(entries, &model.CreditTransaction{
			UserID:       userID,
			Feature:      fmt.Sprintf("Milestone Bonus: %d generations", ledger.LifetimeGenerations),
			CreditChange: fmt.Sprintf("+%d", bonus),
			Date:         now,
			Method:       "milestone",
		})
		s.log.Info("milestone bonus granted",
			zap.String("user_id", userID),
			zap.Int("generations", ledger.LifetimeGenerations),
			zap.Int("bonus", bonus),
		)
	}

	if err := s.ledgerRepo.Save(ctx, tx, ledger); err != nil {
		return nil, fmt.Errorf("save user ledger: %w", err)
	}

	for _, entry := range entries {
		if err := s.txRepo.Append(ctx, tx, entry); err != nil {
			return nil, fmt.Errorf("append credit transaction: %w", err)
		}
	}

	return snapshotOf(ledger), nil
}

func (s *ledgerServiceImpl) Snapshot(ctx context.Context, userID string) (*dto.LedgerSnapshot, error) {
	ledger, err := s.ledgerRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return snapshotOf(ledger), nil
}

func (s *ledgerServiceImpl) History(ctx context.Context, userID string, limit int) ([]*dto.TransactionEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	records, err := s.txRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list credit transactions: %w", err)
	}

	entries := make([]*dto.TransactionEntry, len(records))
	for i, record := range records {
		entries[i] = &dto.TransactionEntry{
			Feature:      record.Feature,
			CreditChange: record.CreditChange,
			Cost:         record.Cost,
			PaymentID:    record.PaymentID,
			Date:         record.Date.Format(time.RFC3339),
			Method:       record.Method,
		}
	}

	return entries, nil
}

func snapshotOf(ledger *model.UserLedger) *dto.LedgerSnapshot {
	return &dto.LedgerSnapshot{
		Credits:              ledger.Credits,
		TotalCreditsAcquired: ledger.TotalCreditsAcquired,
		TotalSpent:           ledger.TotalSpent,
		Plan:                 ledger.Plan,
		StorageTier:          ledger.StorageTier,
		LifetimeGenerations:  ledger.LifetimeGenerations,
	}
}
