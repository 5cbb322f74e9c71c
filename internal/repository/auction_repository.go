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

// CreateAuction creates a new auction
func (r *Repository) CreateAuction(ctx context.Context, auction *models.Auction) error {
	if err := r.db.WithContext(ctx).Create(auction).Error; err != nil {
		return fmt.Errorf("failed to create auction: %w", err)
	}
	return nil
}

// GetAuction retrieves an auction by ID
func (r *Repository) GetAuction(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	var auction models.Auction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&auction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrAuctionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get auction: %w", err)
	}
	return &auction, nil
}

// ListAuctions returns auctions, newest first
func (r *Repository) ListAuctions(ctx context.Context, limit, offset int) ([]*models.Auction, int64, error) {
	var (
		auctions []*models.Auction
		total    int64
	)
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Auction{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count auctions: %w", err)
	}
	err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&auctions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list auctions: %w", err)
	}
	return auctions, total, nil
}

// UpdateAuction saves auction if nobody changed it since it was read
func (r *Repository) UpdateAuction(ctx context.Context, auction *models.Auction) error {
	return r.updateVersioned(ctx, auction, &auction.Version)
}

// DeleteAuctionCascade hard-deletes an auction with its teams, players and
// registration requests. Must run inside WithTx.
func (r *Repository) DeleteAuctionCascade(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("auction_id = ?", id).Delete(&models.PlayerRequest{}).Error; err != nil {
		return fmt.Errorf("failed to delete registration requests: %w", err)
	}
	if err := db.Where("auction_id = ?", id).Delete(&models.Player{}).Error; err != nil {
		return fmt.Errorf("failed to delete players: %w", err)
	}
	if err := db.Where("auction_id = ?", id).Delete(&models.Team{}).Error; err != nil {
		return fmt.Errorf("failed to delete teams: %w", err)
	}

	result := db.Where("id = ?", id).Delete(&models.Auction{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete auction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.ErrAuctionNotFound
	}
	return nil
}
