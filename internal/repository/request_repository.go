package repository

import (
	"context"
	"errors"
	"fmt"

	"sports-auction/internal/apperr"
	"sports-auction/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *Repository) CreatePlayerRequest(ctx context.Context, req *models.PlayerRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("failed to create registration request: %w", err)
	}
	return nil
}

func (r *Repository) GetPlayerRequest(ctx context.Context, id uuid.UUID) (*models.PlayerRequest, error) {
	var req models.PlayerRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registration request: %w", err)
	}
	return &req, nil
}

func (r *Repository) ListPlayerRequests(ctx context.Context, auctionID uuid.UUID, status models.PlayerRequestStatus) ([]*models.PlayerRequest, error) {
	var reqs []*models.PlayerRequest
	query := r.db.WithContext(ctx).Where("auction_id = ?", auctionID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at ASC").Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list registration requests: %w", err)
	}
	return reqs, nil
}

// ResolvePlayerRequest moves a PENDING request to status. A request that is
// no longer pending yields apperr.ErrInvalidState.
func (r *Repository) ResolvePlayerRequest(ctx context.Context, id uuid.UUID, status models.PlayerRequestStatus, playerID *uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.PlayerRequest{}).
		Where("id = ? AND status = ?", id, models.PlayerRequestStatusPending).
		Updates(map[string]interface{}{
			"status":    status,
			"player_id": playerID,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update registration request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.ErrInvalidState.WithMessage("registration request is not pending")
	}
	return nil
}
