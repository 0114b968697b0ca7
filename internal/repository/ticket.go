package repository

import (
	"context"
	"pixa-backend/internal/model"

	"gorm.io/gorm"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *model.SupportTicket) error
	ListOpen(ctx context.Context, limit int) ([]*model.SupportTicket, error)
}

type ticketRepoImpl struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepoImpl{
		db: db,
	}
}

func (r *ticketRepoImpl) Create(ctx context.Context, ticket *model.SupportTicket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *ticketRepoImpl) ListOpen(ctx context.Context, limit int) ([]*model.SupportTicket, error) {
	var tickets []*model.SupportTicket
	err := r.db.WithContext(ctx).
		Where("status = ?", "open").
		Order("created_at ASC").
		Limit(limit).
		Find(&tickets).Error

	if err != nil {
		return nil, err
	}

	return tickets, nil
}
