package services

import (
	"context"
	"time"

	"sports-auction/internal/apperr"
	"sports-auction/internal/ledger"
	"sports-auction/internal/lock"
	"sports-auction/internal/models"
	"sports-auction/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BiddingService struct {
	*Core
	now func() time.Time
}

func NewBiddingService(core *Core) *BiddingService {
	return &BiddingService{Core: core, now: time.Now}
}

// PlaceBid validates a bid and records it as the player's new top bid.
// Checks run in a fixed order and the first failure is returned:
// auction live, player is current, player in auction, above top bid,
// at least base price, minimum increment, team in auction, team budget.
// No points are deducted until the player is sold.
func (s *BiddingService) PlaceBid(ctx context.Context, auctionID, playerID, teamID uuid.UUID, amount int64) (*models.Player, error) {
	var result *models.Player
	err := s.locked(ctx, []string{lock.Key("player", playerID)}, func() error {
		return s.retry(ctx, "PLACE_BID", func() error {
			auction, player, err := s.validateBid(ctx, auctionID, playerID, teamID, amount)
			if err != nil {
				return err
			}

			now := s.now().UTC()
			player.CurrentTopBid = amount
			player.Bids = append(player.Bids, models.Bid{TeamID: teamID, Amount: amount, Time: now})
			auction.LastBidTime = &now

			err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
				if err := tx.UpdatePlayer(ctx, player); err != nil {
					return err
				}
				return tx.UpdateAuction(ctx, auction)
			})
			if err != nil {
				return err
			}
			result = player
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Bid accepted",
		zap.String("auction_id", auctionID.String()),
		zap.String("player_id", playerID.String()),
		zap.String("team_id", teamID.String()),
		zap.Int64("amount", amount),
	)
	return result, nil
}

func (s *BiddingService) validateBid(ctx context.Context, auctionID, playerID, teamID uuid.UUID, amount int64) (*models.Auction, *models.Player, error) {
	auction, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, nil, err
	}
	if !auction.IsLive {
		return nil, nil, apperr.ErrAuctionNotLive
	}
	if auction.CurrentPlayerID == nil || *auction.CurrentPlayerID != playerID {
		return nil, nil, apperr.ErrBiddingClosed
	}

	player, err := s.repo.GetPlayer(ctx, playerID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, nil, apperr.ErrPlayerNotInAuction
		}
		return nil, nil, err
	}
	if player.AuctionID != auction.ID || player.Status != models.PlayerStatusInAuction {
		return nil, nil, apperr.ErrPlayerNotInAuction
	}

	if amount <= player.CurrentTopBid {
		return nil, nil, apperr.ErrBidTooLow.WithMessage("bid %d must exceed the current top bid %d", amount, player.CurrentTopBid)
	}
	if amount < player.BasePrice {
		return nil, nil, apperr.ErrBelowBasePrice.WithMessage("bid %d is below the base price %d", amount, player.BasePrice)
	}
	if inc := auction.MinIncrement(); inc > 0 && player.CurrentTopBid > 0 && amount-player.CurrentTopBid < inc {
		return nil, nil, apperr.ErrBidIncrementTooSmall.WithMessage("bid must raise the top bid by at least %d", inc)
	}

	team, err := s.repo.GetAuctionTeam(ctx, auction.ID, teamID)
	if err != nil {
		return nil, nil, err
	}
	if !ledger.CanAfford(team, amount) {
		return nil, nil, apperr.ErrInsufficientBudget.WithMessage("team has %d points available, bid is %d", team.AvailablePoints, amount)
	}

	return auction, player, nil
}

// GetAuctionState is the read-only polling projection. It never writes.
func (s *BiddingService) GetAuctionState(ctx context.Context, auctionID uuid.UUID) (*models.AuctionState, error) {
	auction, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	state := &models.AuctionState{
		Auction: models.AuctionStateHeader{
			ID:              auction.ID,
			Name:            auction.Name,
			Status:          auction.Status,
			IsLive:          auction.IsLive,
			CurrentPlayerID: auction.CurrentPlayerID,
			LastBidTime:     auction.LastBidTime,
			PointsPerTeam:   auction.PointsPerTeam,
			BidIncrements:   auction.BidIncrements,
		},
	}
	if auction.CurrentPlayerID == nil {
		return state, nil
	}

	player, err := s.repo.GetPlayer(ctx, *auction.CurrentPlayerID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return state, nil
		}
		return nil, err
	}

	teams, err := s.repo.ListTeams(ctx, auction.ID)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(teams))
	for _, team := range teams {
		names[team.ID] = team.Name
	}

	bids := make([]models.BidView, 0, len(player.Bids))
	for _, bid := range player.Bids {
		bids = append(bids, models.BidView{
			TeamID:   bid.TeamID,
			TeamName: names[bid.TeamID],
			Amount:   bid.Amount,
			Time:     bid.Time,
		})
	}
	state.CurrentPlayer = &models.PlayerStateView{Player: *player, Bids: bids}
	return state, nil
}
