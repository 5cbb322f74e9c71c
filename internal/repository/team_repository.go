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

func (r *Repository) CreateTeam(ctx context.Context, team *models.Team) error {
	if err := r.db.WithContext(ctx).Create(team).Error; err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *Repository) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return &team, nil
}

// GetAuctionTeam returns the team only if it belongs to auctionID
func (r *Repository) GetAuctionTeam(ctx context.Context, auctionID, teamID uuid.UUID) (*models.Team, error) {
	team, err := r.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.AuctionID != auctionID {
		return nil, apperr.ErrTeamNotFound
	}
	return team, nil
}

func (r *Repository) ListTeams(ctx context.Context, auctionID uuid.UUID) ([]*models.Team, error) {
	var teams []*models.Team
	err := r.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("created_at ASC").
		Find(&teams).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// UpdateTeam saves team if nobody changed it since it was read
func (r *Repository) UpdateTeam(ctx context.Context, team *models.Team) error {
	return r.updateVersioned(ctx, team, &team.Version)
}

func (r *Repository) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Team{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete team: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.ErrTeamNotFound
	}
	return nil
}
