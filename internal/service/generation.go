package service

import (
	"context"
	"fmt"
	"time"

	"pixa-backend/internal/client"
	"pixa-backend/internal/dto"
	"pixa-backend/internal/model"
	"pixa-backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// featureCosts is the per-generation credit price per feature. Features not
// listed cost the default.
var featureCosts = map[string]int{
	"product-photography": 2,
	"headshots":           2,
	"interior-design":     2,
	"apparel-tryon":       2,
	"ad-creative":         3,
	"photo-restore":       1,
}

const defaultGenerationCost = 1

type GenerationService interface {
	Generate(ctx context.Context, userID string, req *dto.GenerateRequest) (*dto.GenerateResponse, error)
	ListCreations(ctx context.Context, userID string, limit int) ([]*dto.CreationEntry, error)
}

type generationServiceImpl struct {
	db           *gorm.DB
	log          *zap.Logger
	gemini       client.GeminiClient
	ledgerSvc    LedgerService
	creationRepo repository.CreationRepository
}

func NewGenerationService(
	db *gorm.DB,
	log *zap.Logger,
	gemini client.GeminiClient,
	ledgerSvc LedgerService,
	creationRepo repository.CreationRepository,
) GenerationService {
	return &generationServiceImpl{
		db:           db,
		log:          log.Named("generation"),
		gemini:       gemini,
		ledgerSvc:    ledgerSvc,
		creationRepo: creationRepo,
	}
}

// Generate calls the image model and, on success, debits the user and saves
// the creation in one transaction. The external call happens before the
// transaction opens, no lock is held across it.
func (s *generationServiceImpl) Generate(ctx context.Context, userID string, req *dto.GenerateRequest) (*dto.GenerateResponse, error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("prompt is required")
	}
	cost := CostForFeature(req.Feature)

	// Cheap pre-check so we do not burn a model call for a user who cannot
	// pay. The authoritative balance check is the debit below.
	snapshot, err := s.ledgerSvc.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	if snapshot.Credits < cost {
		return nil, ErrInsufficientCredits
	}

	image, err := s.gemini.GenerateImage(ctx, &client.GenerateImageRequest{
		Prompt:    req.Prompt,
		ImageData: req.ImageData,
		MimeType:  req.MimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}

	creation := &model.Creation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Feature:   req.Feature,
		ImageURL:  fmt.Sprintf("data:%s;base64,%s", image.MimeType, image.ImageData),
		Prompt:    req.Prompt,
		CreatedAt: time.Now().UTC(),
	}

	var updated *dto.LedgerSnapshot
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updated, err = s.ledgerSvc.DebitInTx(ctx, tx, userID, cost, req.Feature)
		if err != nil {
			return err
		}
		return s.creationRepo.Create(ctx, tx, creation)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("generation completed",
		zap.String("user_id", userID),
		zap.String("feature", req.Feature),
		zap.Int("cost", cost),
	)

	return &dto.GenerateResponse{
		CreationID: creation.ID,
		ImageData:  image.ImageData,
		MimeType:   image.MimeType,
		Ledger:     *updated,
	}, nil
}

func (s *generationServiceImpl) ListCreations(ctx context.Context, userID string, limit int) ([]*dto.CreationEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	creations, err := s.creationRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list creations: %w", err)
	}

	entries := make([]*dto.CreationEntry, len(creations))
	for i, creation := range creations {
		entries[i] = &dto.CreationEntry{
			ID:        creation.ID,
			Feature:   creation.Feature,
			ImageURL:  creation.ImageURL,
			Refunded:  creation.Refunded,
			CreatedAt: creation.CreatedAt.Format(time.RFC3339),
		}
	}

	return entries, nil
}

func CostForFeature(feature string) int {
	if cost, ok := featureCosts[feature]; ok {
		return cost
	}
	return defaultGenerationCost
}
