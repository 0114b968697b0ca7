package service

import (
	"context"
	"testing"
	"time"

	"pixa-backend/internal/client"
	"pixa-backend/internal/model"
	"pixa-backend/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testWebhookSecret = "test-webhook-secret"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// single connection keeps the in-memory database shared and serializes
	// concurrent transactions the way the production store does
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, client.Migrate(db))
	return db
}

type testEnv struct {
	db           *gorm.DB
	ledgerRepo   repository.LedgerRepository
	txRepo       repository.TransactionRepository
	purchaseRepo repository.PurchaseRepository
	ticketRepo   repository.TicketRepository
	creationRepo repository.CreationRepository

	webhookSvc WebhookService
	ledgerSvc  LedgerService
	refundSvc  RefundService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	log := zap.NewNop()

	env := &testEnv{
		db:           db,
		ledgerRepo:   repository.NewLedgerRepository(db),
		txRepo:       repository.NewTransactionRepository(db),
		purchaseRepo: repository.NewPurchaseRepository(db),
		ticketRepo:   repository.NewTicketRepository(db),
		creationRepo: repository.NewCreationRepository(db),
	}

	env.webhookSvc = NewWebhookService(db, log, testWebhookSecret, env.ledgerRepo, env.txRepo, env.purchaseRepo)
	env.ledgerSvc = NewLedgerService(db, log, 10, env.ledgerRepo, env.txRepo)
	env.refundSvc = NewRefundService(db, log, env.ledgerRepo, env.txRepo, env.ticketRepo, env.creationRepo)

	return env
}

func (e *testEnv) seedUser(t *testing.T, userID string, credits int) {
	t.Helper()

	err := e.db.Create(&model.UserLedger{
		UserID:  userID,
		Credits: credits,
		Plan:    "Free",
	}).Error
	require.NoError(t, err)
}

func (e *testEnv) ledgerOf(t *testing.T, userID string) *model.UserLedger {
	t.Helper()

	ledger, err := e.ledgerRepo.Get(context.Background(), userID)
	require.NoError(t, err)
	return ledger
}

func (e *testEnv) transactionCount(t *testing.T, userID string) int64 {
	t.Helper()

	count, err := e.txRepo.CountByUser(context.Background(), userID)
	require.NoError(t, err)
	return count
}

func (e *testEnv) purchaseCount(t *testing.T) int64 {
	t.Helper()

	var count int64
	require.NoError(t, e.db.Model(&model.Purchase{}).Count(&count).Error)
	return count
}

func timePtr(tm time.Time) *time.Time {
	return &tm
}
