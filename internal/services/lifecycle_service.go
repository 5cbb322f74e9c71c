package services

import (
	"context"

	"sports-auction/internal/apperr"
	"sports-auction/internal/lock"
	"sports-auction/internal/models"
	"sports-auction/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LifecycleService drives the auction state machine and the current-player
// pointer.
//
//	NOT_STARTED --start--> LIVE --finish--> FINISHED --resume--> LIVE
//
// start on a LIVE auction is a no-op; start on a FINISHED auction is rejected.
type LifecycleService struct {
	*Core
}

func NewLifecycleService(core *Core) *LifecycleService {
	return &LifecycleService{Core: core}
}

// mutateAuction reads the auction under its lock, lets change decide the new
// state, and persists it with an audit row. change returns false to skip the
// write.
func (s *LifecycleService) mutateAuction(
	ctx context.Context,
	auctionID uuid.UUID,
	op string,
	change func(a *models.Auction) (bool, models.JSONB, error),
) (*models.Auction, error) {
	var result *models.Auction
	err := s.locked(ctx, []string{lock.Key("auction", auctionID)}, func() error {
		return s.retry(ctx, op, func() error {
			auction, err := s.repo.GetAuction(ctx, auctionID)
			if err != nil {
				return err
			}

			write, details, err := change(auction)
			if err != nil {
				return err
			}
			if !write {
				result = auction
				return nil
			}

			err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
				if err := tx.UpdateAuction(ctx, auction); err != nil {
					return err
				}
				return audit(ctx, tx, auction.ID, op, "auction", uuidPtr(auction.ID), details)
			})
			if err != nil {
				return err
			}
			result = auction
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Auction updated",
		zap.String("op", op),
		zap.String("auction_id", auctionID.String()),
		zap.String("status", string(result.Status)),
	)
	return result, nil
}

// Start opens bidding. Idempotent while LIVE.
func (s *LifecycleService) Start(ctx context.Context, auctionID uuid.UUID) (*models.Auction, error) {
	return s.mutateAuction(ctx, auctionID, models.AuditActionStart, func(a *models.Auction) (bool, models.JSONB, error) {
		switch a.Status {
		case models.AuctionStatusFinished:
			return false, nil, apperr.ErrInvalidState.WithMessage("finished auction must be resumed, not started")
		case models.AuctionStatusLive:
			if a.IsLive {
				return false, nil, nil
			}
		}
		prev := a.Status
		a.Status = models.AuctionStatusLive
		a.IsLive = true
		return true, models.JSONB{"from": prev}, nil
	})
}

// Resume re-opens a finished auction.
func (s *LifecycleService) Resume(ctx context.Context, auctionID uuid.UUID) (*models.Auction, error) {
	return s.mutateAuction(ctx, auctionID, models.AuditActionResume, func(a *models.Auction) (bool, models.JSONB, error) {
		if a.Status != models.AuctionStatusFinished {
			return false, nil, apperr.ErrInvalidState.WithMessage("only a finished auction can be resumed")
		}
		a.Status = models.AuctionStatusLive
		a.IsLive = true
		return true, nil, nil
	})
}

// Finish closes the auction and clears the current player.
func (s *LifecycleService) Finish(ctx context.Context, auctionID uuid.UUID) (*models.Auction, error) {
	return s.mutateAuction(ctx, auctionID, models.AuditActionFinish, func(a *models.Auction) (bool, models.JSONB, error) {
		if a.Status == models.AuctionStatusFinished && !a.IsLive && a.CurrentPlayerID == nil {
			return false, nil, nil
		}
		details := models.JSONB{"from": a.Status}
		if a.CurrentPlayerID != nil {
			details["cleared_player_id"] = a.CurrentPlayerID.String()
		}
		a.Status = models.AuctionStatusFinished
		a.IsLive = false
		a.CurrentPlayerID = nil
		return true, details, nil
	})
}

// ToggleRegistration flips IsRegistrationOpen and returns the new value.
func (s *LifecycleService) ToggleRegistration(ctx context.Context, auctionID uuid.UUID) (bool, error) {
	auction, err := s.mutateAuction(ctx, auctionID, models.AuditActionToggleRegistration, func(a *models.Auction) (bool, models.JSONB, error) {
		a.IsRegistrationOpen = !a.IsRegistrationOpen
		return true, models.JSONB{"open": a.IsRegistrationOpen}, nil
	})
	if err != nil {
		return false, err
	}
	return auction.IsRegistrationOpen, nil
}

// SelectCurrentPlayer puts a player on the block. The player is moved to
// IN_AUCTION in the same transaction as the pointer change.
func (s *LifecycleService) SelectCurrentPlayer(ctx context.Context, auctionID, playerID uuid.UUID) (*models.Auction, error) {
	keys := []string{lock.Key("auction", auctionID), lock.Key("player", playerID)}

	var result *models.Auction
	err := s.locked(ctx, keys, func() error {
		return s.retry(ctx, models.AuditActionSelectPlayer, func() error {
			auction, err := s.repo.GetAuction(ctx, auctionID)
			if err != nil {
				return err
			}
			if auction.Status != models.AuctionStatusLive {
				return apperr.ErrNotLive
			}

			player, err := s.repo.GetPlayer(ctx, playerID)
			if err != nil {
				if apperr.KindOf(err) == apperr.KindNotFound {
					return apperr.ErrInvalidPlayer.WithMessage("player not found")
				}
				return err
			}
			if player.AuctionID != auction.ID {
				return apperr.ErrInvalidPlayer
			}
			if player.Status == models.PlayerStatusSold {
				return apperr.ErrInvalidState.WithMessage("sold player must be removed from the team before reselection")
			}

			auction.CurrentPlayerID = uuidPtr(player.ID)
			player.Status = models.PlayerStatusInAuction

			err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
				if err := tx.UpdatePlayer(ctx, player); err != nil {
					return err
				}
				if err := tx.UpdateAuction(ctx, auction); err != nil {
					return err
				}
				return audit(ctx, tx, auction.ID, models.AuditActionSelectPlayer, "player", uuidPtr(player.ID),
					models.JSONB{"name": player.Name})
			})
			if err != nil {
				return err
			}
			result = auction
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
