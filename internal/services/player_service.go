package services

import (
	"context"
	"strings"

	"sports-auction/internal/apperr"
	"sports-auction/internal/lock"
	"sports-auction/internal/models"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
)

// playerNames implements fuzzy.Source over player names
type playerNames []*models.Player

func (p playerNames) String(i int) string { return strings.ToLower(p[i].Name) }
func (p playerNames) Len() int            { return len(p) }

type PlayerService struct {
	*Core
}

func NewPlayerService(core *Core) *PlayerService {
	return &PlayerService{Core: core}
}

func (s *PlayerService) Create(ctx context.Context, auctionID uuid.UUID, req *models.CreatePlayerRequest) (*models.Player, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.ErrInvalidInput.WithMessage("player name is required")
	}
	if req.BasePrice < 0 {
		return nil, apperr.ErrInvalidInput.WithMessage("base_price cannot be negative")
	}
	if _, err := s.repo.GetAuction(ctx, auctionID); err != nil {
		return nil, err
	}

	player := &models.Player{
		AuctionID: auctionID,
		Name:      strings.TrimSpace(req.Name),
		Category:  req.Category,
		Role:      req.Role,
		BasePrice: req.BasePrice,
		Image:     req.Image,
		Mobile:    req.Mobile,
		Stats:     req.Stats,
		Status:    models.PlayerStatusNotInAuction,
	}
	if err := s.repo.CreatePlayer(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *PlayerService) Get(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	return s.repo.GetPlayer(ctx, id)
}

// List returns an auction's players filtered by status. A non-empty search
// keeps fuzzy name matches only, best match first.
func (s *PlayerService) List(ctx context.Context, auctionID uuid.UUID, status models.PlayerStatus, search string) ([]*models.Player, error) {
	if _, err := s.repo.GetAuction(ctx, auctionID); err != nil {
		return nil, err
	}
	players, err := s.repo.ListPlayers(ctx, auctionID, status)
	if err != nil {
		return nil, err
	}

	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return players, nil
	}

	matches := fuzzy.FindFrom(search, playerNames(players))
	results := make([]*models.Player, len(matches))
	for i, match := range matches {
		results[i] = players[match.Index]
	}
	return results, nil
}

// Update edits profile fields. Auction state fields change only through the
// lifecycle, bidding and settlement services.
func (s *PlayerService) Update(ctx context.Context, id uuid.UUID, req *models.UpdatePlayerRequest) (*models.Player, error) {
	var result *models.Player
	err := s.locked(ctx, []string{lock.Key("player", id)}, func() error {
		return s.retry(ctx, "PLAYER_UPDATE", func() error {
			player, err := s.repo.GetPlayer(ctx, id)
			if err != nil {
				return err
			}
			if req.Name != nil {
				if strings.TrimSpace(*req.Name) == "" {
					return apperr.ErrInvalidInput.WithMessage("player name cannot be empty")
				}
				player.Name = strings.TrimSpace(*req.Name)
			}
			if req.Category != nil {
				player.Category = *req.Category
			}
			if req.Role != nil {
				player.Role = *req.Role
			}
			if req.BasePrice != nil {
				if *req.BasePrice < 0 {
					return apperr.ErrInvalidInput.WithMessage("base_price cannot be negative")
				}
				player.BasePrice = *req.BasePrice
			}
			if req.Image != nil {
				player.Image = *req.Image
			}
			if req.Mobile != nil {
				player.Mobile = *req.Mobile
			}
			if req.Stats != nil {
				player.Stats = req.Stats
			}
			if err := s.repo.UpdatePlayer(ctx, player); err != nil {
				return err
			}
			result = player
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a player that is neither sold nor on the block
func (s *PlayerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.locked(ctx, []string{lock.Key("player", id)}, func() error {
		player, err := s.repo.GetPlayer(ctx, id)
		if err != nil {
			return err
		}
		if player.Status == models.PlayerStatusSold {
			return apperr.ErrInvalidState.WithMessage("sold player must be removed from the team first")
		}
		auction, err := s.repo.GetAuction(ctx, player.AuctionID)
		switch {
		case err != nil && apperr.KindOf(err) != apperr.KindNotFound:
			return err
		case err == nil && auction.CurrentPlayerID != nil && *auction.CurrentPlayerID == id:
			return apperr.ErrInvalidState.WithMessage("player is currently up for bidding")
		}
		return s.repo.DeletePlayer(ctx, id)
	})
}
