package services

import (
	"context"

	"sports-auction/internal/models"
	"sports-auction/internal/repository"

	"github.com/google/uuid"
)

type AuditService struct {
	repo *repository.Repository
}

func NewAuditService(repo *repository.Repository) *AuditService {
	return &AuditService{repo: repo}
}

// List returns an auction's audit trail, newest first
func (s *AuditService) List(ctx context.Context, auctionID uuid.UUID, limit, offset int) ([]*models.AuditLog, error) {
	if _, err := s.repo.GetAuction(ctx, auctionID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListAuditLogs(ctx, auctionID, limit, offset)
}
