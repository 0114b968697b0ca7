package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pixa-backend/internal/model"
	"pixa-backend/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user ledger not found")

// WebhookOutcome classifies how a verified delivery was handled so the
// handler can pick the right acknowledgment.
type WebhookOutcome string

const (
	OutcomeApplied         WebhookOutcome = "applied"
	OutcomeDuplicate       WebhookOutcome = "duplicate"
	OutcomeIgnored         WebhookOutcome = "ignored"
	OutcomeMissingMetadata WebhookOutcome = "missing_metadata"
)

type WebhookService interface {
	// VerifySignature checks the provider HMAC against the literal raw
	// request bytes. Callers must pass the bytes as read off the wire,
	// never a re-serialized copy.
	VerifySignature(rawBody []byte, signature string) bool
	ProcessEvent(ctx context.Context, rawBody []byte) (WebhookOutcome, error)
}

type webhookServiceImpl struct {
	db            *gorm.DB
	log           *zap.Logger
	webhookSecret string
	ledgerRepo    repository.LedgerRepository
	txRepo        repository.TransactionRepository
	purchaseRepo  repository.PurchaseRepository
}

func NewWebhookService(
	db *gorm.DB,
	log *zap.Logger,
	webhookSecret string,
	ledgerRepo repository.LedgerRepository,
	txRepo repository.TransactionRepository,
	purchaseRepo repository.PurchaseRepository,
) WebhookService {
	return &webhookServiceImpl{
		db:            db,
		log:           log.Named("webhook"),
		webhookSecret: webhookSecret,
		ledgerRepo:    ledgerRepo,
		txRepo:        txRepo,
		purchaseRepo:  purchaseRepo,
	}
}

func (s *webhookServiceImpl) VerifySignature(rawBody []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expected))
}

// purchaseIntent is the normalized grant extracted from event notes.
type purchaseIntent struct {
	PaymentID string
	UserID    string
	PackName  string
	Credits   int
	Price     int
	Type      string
}

func (s *webhookServiceImpl) ProcessEvent(ctx context.Context, rawBody []byte) (WebhookOutcome, error) {
	var event model.RazorpayWebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return "", fmt.Errorf("decode webhook payload: %w", err)
	}

	switch event.Event {
	case "payment.captured", "order.paid":
	default:
		return OutcomeIgnored, nil
	}

	intent, ok := s.extractIntent(&event)
	if !ok {
		s.log.Warn("webhook metadata missing, acknowledging without grant",
			zap.String("event", event.Event),
			zap.String("payment_id", event.Payload.Payment.Entity.ID),
		)
		return OutcomeMissingMetadata, nil
	}

	return s.reconcile(ctx, intent)
}

func (s *webhookServiceImpl) extractIntent(event *model.RazorpayWebhookEvent) (*purchaseIntent, bool) {
	paymentID := event.Payload.Payment.Entity.ID
	notes := event.Payload.Payment.Entity.Notes

	// order.paid deliveries sometimes carry the notes on the order entity.
	if notes.UserID == "" && event.Payload.Order.Entity.Notes.UserID != "" {
		notes = event.Payload.Order.Entity.Notes
	}
	if paymentID == "" {
		paymentID = event.Payload.Order.Entity.ID
	}

	if paymentID == "" || notes.UserID == "" {
		return nil, false
	}

	// credits is required for a meaningful grant; a non-numeric value is
	// treated the same as absent metadata.
	credits, err := strconv.Atoi(strings.TrimSpace(notes.Credits))
	if err != nil || credits <= 0 {
		return nil, false
	}

	// price is advisory audit data, unparsable defaults to 0.
	price, err := strconv.Atoi(strings.TrimSpace(notes.Price))
	if err != nil {
		price = 0
	}

	return &purchaseIntent{
		PaymentID: paymentID,
		UserID:    notes.UserID,
		PackName:  notes.PackName,
		Credits:   credits,
		Price:     price,
		Type:      notes.Type,
	}, true
}

// reconcile applies a verified purchase exactly once. The purchase row keyed
// by the provider payment id is the dedup fence; the fence check, the balance
// update, the audit append and the fence creation all commit atomically.
func (s *webhookServiceImpl) reconcile(ctx context.Context, intent *purchaseIntent) (WebhookOutcome, error) {
	outcome := OutcomeApplied

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.purchaseRepo.Exists(ctx, tx, intent.PaymentID)
		if err != nil {
			return fmt.Errorf("check purchase fence: %w", err)
		}
		if exists {
			// Already reconciled. Commit with zero side effects.
			outcome = OutcomeDuplicate
			return nil
		}

		ledger, err := s.ledgerRepo.GetForUpdate(ctx, tx, intent.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("payment %s for user %s: %w", intent.PaymentID, intent.UserID, ErrUserNotFound)
			}
			return fmt.Errorf("read user ledger: %w", err)
		}

		now := time.Now().UTC()

		ledger.Credits += intent.Credits
		ledger.TotalCreditsAcquired += intent.Credits
		ledger.TotalSpent += intent.Price

		if intent.Type == "plan" {
			ledger.Plan = intent.PackName
			if isTopTierPack(intent.PackName) {
				ledger.StorageTier = "unlimited"
				ledger.BasePlan = intent.PackName
				ledger.LastTierPurchaseDate = &now
			}
		} else if ledger.Plan == "" {
			ledger.Plan = "Free"
		}

		if err := s.ledgerRepo.Save(ctx, tx, ledger); err != nil {
			return fmt.Errorf("save user ledger: %w", err)
		}

		entry := &model.CreditTransaction{
			UserID:       intent.UserID,
			Feature:      purchaseLabel(intent),
			CreditChange: fmt.Sprintf("+%d", intent.Credits),
			Cost:         intent.Price,
			PaymentID:    intent.PaymentID,
			Date:         now,
			Method:       "webhook",
		}
		if err := s.txRepo.Append(ctx, tx, entry); err != nil {
			return fmt.Errorf("append credit transaction: %w", err)
		}

		purchase := &model.Purchase{
			PaymentID:    intent.PaymentID,
			UserID:       intent.UserID,
			PackName:     intent.PackName,
			CreditsAdded: intent.Credits,
			AmountPaid:   intent.Price,
			Status:       "success",
			PurchaseDate: now,
			Method:       "webhook",
		}
		if err := s.purchaseRepo.Create(ctx, tx, purchase); err != nil {
			return fmt.Errorf("create purchase record: %w", err)
		}

		return nil
	})

	if err != nil {
		return "", err
	}

	return outcome, nil
}

func purchaseLabel(intent *purchaseIntent) string {
	if intent.Type == "plan" {
		return fmt.Sprintf("Purchase: %s", intent.PackName)
	}
	if intent.PackName != "" {
		return fmt.Sprintf("Credit Refill: %s", intent.PackName)
	}
	return "Credit Refill"
}

func isTopTierPack(packName string) bool {
	return strings.Contains(packName, "Studio") || strings.Contains(packName, "Agency")
}
