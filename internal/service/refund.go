package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pixa-backend/internal/dto"
	"pixa-backend/internal/model"
	"pixa-backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// refundCooldown is the rolling window for automatic refunds. A second
// complaint inside the window escalates to a support ticket instead.
const refundCooldown = 24 * time.Hour

type RefundService interface {
	RequestRefund(ctx context.Context, userID string, req *dto.RefundRequest) (*dto.RefundResult, error)
}

type refundServiceImpl struct {
	db           *gorm.DB
	log          *zap.Logger
	ledgerRepo   repository.LedgerRepository
	txRepo       repository.TransactionRepository
	ticketRepo   repository.TicketRepository
	creationRepo repository.CreationRepository
}

func NewRefundService(
	db *gorm.DB,
	log *zap.Logger,
	ledgerRepo repository.LedgerRepository,
	txRepo repository.TransactionRepository,
	ticketRepo repository.TicketRepository,
	creationRepo repository.CreationRepository,
) RefundService {
	return &refundServiceImpl{
		db:           db,
		log:          log.Named("refund"),
		ledgerRepo:   ledgerRepo,
		txRepo:       txRepo,
		ticketRepo:   ticketRepo,
		creationRepo: creationRepo,
	}
}

// RequestRefund self-serves a credit refund when the user has not had an
// automatic refund inside the cooldown window, otherwise it escalates to a
// manual ticket. The eligibility check and the stamp that closes the window
// happen in the same transaction, so two concurrent requests cannot both
// take the automatic path.
func (s *refundServiceImpl) RequestRefund(ctx context.Context, userID string, req *dto.RefundRequest) (*dto.RefundResult, error) {
	if req.Cost <= 0 {
		return nil, fmt.Errorf("refund cost must be positive")
	}

	var result *dto.RefundResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ledger, err := s.ledgerRepo.GetForUpdate(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("refund for user %s: %w", userID, ErrUserNotFound)
			}
			return fmt.Errorf("read user ledger: %w", err)
		}

		now := time.Now().UTC()

		if !eligibleForAutoRefund(ledger.LastAutomatedRefund, now) {
			// commit with no writes, the ticket path runs after
			return nil
		}

		ledger.Credits += req.Cost
		ledger.LastAutomatedRefund = &now

		if err := s.ledgerRepo.Save(ctx, tx, ledger); err != nil {
			return fmt.Errorf("save user ledger: %w", err)
		}

		entry := &model.CreditTransaction{
			UserID:       userID,
			Feature:      fmt.Sprintf("Refund: %s", req.Feature),
			CreditChange: fmt.Sprintf("+%d", req.Cost),
			Date:         now,
			Method:       "auto_refund",
		}
		if err := s.txRepo.Append(ctx, tx, entry); err != nil {
			return fmt.Errorf("append credit transaction: %w", err)
		}

		if req.CreationID != "" {
			if err := s.creationRepo.MarkRefunded(ctx, tx, req.CreationID, userID); err != nil {
				return fmt.Errorf("mark creation refunded: %w", err)
			}
		}

		result = &dto.RefundResult{
			Success: true,
			Type:    "refund",
			Message: fmt.Sprintf("%d credits have been returned to your account.", req.Cost),
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	if result != nil {
		s.log.Info("automatic refund granted",
			zap.String("user_id", userID),
			zap.Int("credits", req.Cost),
			zap.String("feature", req.Feature),
		)
		return result, nil
	}

	return s.escalate(ctx, userID, req)
}

func (s *refundServiceImpl) escalate(ctx context.Context, userID string, req *dto.RefundRequest) (*dto.RefundResult, error) {
	ticket := &model.SupportTicket{
		ID:               uuid.NewString(),
		UserID:           userID,
		UserEmail:        req.UserEmail,
		Subject:          fmt.Sprintf("Refund request: %s", req.Feature),
		Reason:           req.Reason,
		RequestedCredits: req.Cost,
		Feature:          req.Feature,
		CreationID:       req.CreationID,
		GenerationConfig: req.GenerationConfig,
		Status:           "open",
	}

	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("create support ticket: %w", err)
	}

	s.log.Info("refund escalated to support",
		zap.String("user_id", userID),
		zap.String("ticket_id", ticket.ID),
	)

	return &dto.RefundResult{
		Success: true,
		Type:    "ticket",
		Message: "Your request has been sent to our support team for review.",
	}, nil
}

func eligibleForAutoRefund(last *time.Time, now time.Time) bool {
	if last == nil {
		return true
	}
	return now.Sub(*last) > refundCooldown
}
