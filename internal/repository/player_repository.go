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

func (r *Repository) CreatePlayer(ctx context.Context, player *models.Player) error {
	if err := r.db.WithContext(ctx).Create(player).Error; err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	var player models.Player
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &player, nil
}

// ListPlayers returns the players of an auction, optionally filtered by status
func (r *Repository) ListPlayers(ctx context.Context, auctionID uuid.UUID, status models.PlayerStatus) ([]*models.Player, error) {
	var players []*models.Player
	query := r.db.WithContext(ctx).Where("auction_id = ?", auctionID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at ASC").Find(&players).Error; err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

// ListTeamPlayers returns the sold players owned by a team
func (r *Repository) ListTeamPlayers(ctx context.Context, teamID uuid.UUID) ([]*models.Player, error) {
	var players []*models.Player
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND status = ?", teamID, models.PlayerStatusSold).
		Find(&players).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list team players: %w", err)
	}
	return players, nil
}

// CountTeamPlayers counts every player referencing the team, sold or not
func (r *Repository) CountTeamPlayers(ctx context.Context, teamID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Player{}).Where("team_id = ?", teamID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count team players: %w", err)
	}
	return count, nil
}

// CountPlayersByStatus returns player counts per status for an auction
func (r *Repository) CountPlayersByStatus(ctx context.Context, auctionID uuid.UUID) (map[models.PlayerStatus]int64, error) {
	var rows []struct {
		Status models.PlayerStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Player{}).
		Select("status, COUNT(*) AS count").
		Where("auction_id = ?", auctionID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count players: %w", err)
	}

	counts := make(map[models.PlayerStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// UpdatePlayer saves player if nobody changed it since it was read
func (r *Repository) UpdatePlayer(ctx context.Context, player *models.Player) error {
	return r.updateVersioned(ctx, player, &player.Version)
}

func (r *Repository) DeletePlayer(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Player{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete player: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.ErrPlayerNotFound
	}
	return nil
}
