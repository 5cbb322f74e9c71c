package services

import (
	"context"
	"strings"

	"sports-auction/internal/apperr"
	"sports-auction/internal/ledger"
	"sports-auction/internal/lock"
	"sports-auction/internal/models"
	"sports-auction/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type AuctionService struct {
	*Core
}

func NewAuctionService(core *Core) *AuctionService {
	return &AuctionService{Core: core}
}

func validIncrements(increments []int64) error {
	for _, inc := range increments {
		if inc <= 0 {
			return apperr.ErrInvalidInput.WithMessage("bid increments must be positive")
		}
	}
	return nil
}

func validTeamLimits(minPlayers, maxPlayers int) error {
	if maxPlayers > 0 && minPlayers > maxPlayers {
		return apperr.ErrInvalidInput.WithMessage("min_players_per_team exceeds max_players_per_team")
	}
	return nil
}

// Create creates an auction in NOT_STARTED state
func (s *AuctionService) Create(ctx context.Context, req *models.CreateAuctionRequest) (*models.Auction, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.ErrInvalidInput.WithMessage("name is required")
	}
	if req.PointsPerTeam <= 0 {
		return nil, apperr.ErrInvalidInput.WithMessage("points_per_team must be positive")
	}
	if err := validIncrements(req.BidIncrements); err != nil {
		return nil, err
	}
	if err := validTeamLimits(req.MinPlayersPerTeam, req.MaxPlayersPerTeam); err != nil {
		return nil, err
	}

	auction := &models.Auction{
		Name:              strings.TrimSpace(req.Name),
		PointsPerTeam:     req.PointsPerTeam,
		MinPlayersPerTeam: req.MinPlayersPerTeam,
		MaxPlayersPerTeam: req.MaxPlayersPerTeam,
		TotalTeams:        req.TotalTeams,
		BidIncrements:     req.BidIncrements,
		AuctionDate:       req.AuctionDate,
		StatFields:        req.StatFields,
		Categories:        req.Categories,
		Status:            models.AuctionStatusNotStarted,
	}
	if err := s.repo.CreateAuction(ctx, auction); err != nil {
		return nil, err
	}

	s.logger.Info("Auction created", zap.String("auction_id", auction.ID.String()), zap.String("name", auction.Name))
	return auction, nil
}

func (s *AuctionService) Get(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	return s.repo.GetAuction(ctx, id)
}

func (s *AuctionService) List(ctx context.Context, limit, offset int) ([]*models.Auction, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListAuctions(ctx, limit, offset)
}

// Update edits auction settings. Changing points_per_team is only allowed
// before the auction starts and shifts every existing team's total by the
// same delta.
func (s *AuctionService) Update(ctx context.Context, id uuid.UUID, req *models.UpdateAuctionRequest) (*models.Auction, error) {
	var result *models.Auction
	err := s.locked(ctx, []string{lock.Key("auction", id)}, func() error {
		return s.retry(ctx, "AUCTION_UPDATE", func() error {
			auction, err := s.repo.GetAuction(ctx, id)
			if err != nil {
				return err
			}

			if req.Name != nil {
				if strings.TrimSpace(*req.Name) == "" {
					return apperr.ErrInvalidInput.WithMessage("name cannot be empty")
				}
				auction.Name = strings.TrimSpace(*req.Name)
			}
			if req.MinPlayersPerTeam != nil {
				auction.MinPlayersPerTeam = *req.MinPlayersPerTeam
			}
			if req.MaxPlayersPerTeam != nil {
				auction.MaxPlayersPerTeam = *req.MaxPlayersPerTeam
			}
			if err := validTeamLimits(auction.MinPlayersPerTeam, auction.MaxPlayersPerTeam); err != nil {
				return err
			}
			if req.TotalTeams != nil {
				auction.TotalTeams = *req.TotalTeams
			}
			if req.BidIncrements != nil {
				if err := validIncrements(req.BidIncrements); err != nil {
					return err
				}
				auction.BidIncrements = req.BidIncrements
			}
			if req.AuctionDate != nil {
				auction.AuctionDate = req.AuctionDate
			}
			if req.StatFields != nil {
				auction.StatFields = req.StatFields
			}
			if req.Categories != nil {
				auction.Categories = req.Categories
			}

			var delta int64
			if req.PointsPerTeam != nil && *req.PointsPerTeam != auction.PointsPerTeam {
				if *req.PointsPerTeam <= 0 {
					return apperr.ErrInvalidInput.WithMessage("points_per_team must be positive")
				}
				if auction.Status != models.AuctionStatusNotStarted {
					return apperr.ErrInvalidState.WithMessage("points_per_team can only change before the auction starts")
				}
				delta = *req.PointsPerTeam - auction.PointsPerTeam
				auction.PointsPerTeam = *req.PointsPerTeam
			}

			var teams []*models.Team
			if delta != 0 {
				if teams, err = s.repo.ListTeams(ctx, id); err != nil {
					return err
				}
			}

			err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
				if err := tx.UpdateAuction(ctx, auction); err != nil {
					return err
				}
				for _, team := range teams {
					ledger.ApplyBonus(team, delta)
					if err := tx.UpdateTeam(ctx, team); err != nil {
						return err
					}
				}
				return nil
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

// Delete removes the auction with its teams, players and registration
// requests in one transaction.
func (s *AuctionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.locked(ctx, []string{lock.Key("auction", id)}, func() error {
		err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
			return tx.DeleteAuctionCascade(ctx, id)
		})
		if err != nil {
			return err
		}
		s.logger.Info("Auction deleted", zap.String("auction_id", id.String()))
		return nil
	})
}

// AddSponsor appends a sponsor to the auction's embedded list
func (s *AuctionService) AddSponsor(ctx context.Context, auctionID uuid.UUID, req *models.SponsorRequest) (*models.Sponsor, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.ErrInvalidInput.WithMessage("sponsor name is required")
	}
	sponsor := models.Sponsor{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(req.Name),
		Logo:    req.Logo,
		Website: req.Website,
	}

	err := s.locked(ctx, []string{lock.Key("auction", auctionID)}, func() error {
		return s.retry(ctx, "SPONSOR_ADD", func() error {
			auction, err := s.repo.GetAuction(ctx, auctionID)
			if err != nil {
				return err
			}
			auction.Sponsors = append(auction.Sponsors, sponsor)
			return s.repo.UpdateAuction(ctx, auction)
		})
	})
	if err != nil {
		return nil, err
	}
	return &sponsor, nil
}

func (s *AuctionService) RemoveSponsor(ctx context.Context, auctionID uuid.UUID, sponsorID string) error {
	return s.locked(ctx, []string{lock.Key("auction", auctionID)}, func() error {
		return s.retry(ctx, "SPONSOR_REMOVE", func() error {
			auction, err := s.repo.GetAuction(ctx, auctionID)
			if err != nil {
				return err
			}
			kept := make([]models.Sponsor, 0, len(auction.Sponsors))
			for _, sp := range auction.Sponsors {
				if sp.ID != sponsorID {
					kept = append(kept, sp)
				}
			}
			if len(kept) == len(auction.Sponsors) {
				return apperr.ErrSponsorNotFound
			}
			auction.Sponsors = kept
			return s.repo.UpdateAuction(ctx, auction)
		})
	})
}

// Summary reports each team's standing. Average price and utilisation are
// rounded to two decimals.
func (s *AuctionService) Summary(ctx context.Context, auctionID uuid.UUID) (*models.AuctionSummary, error) {
	auction, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	teams, err := s.repo.ListTeams(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountPlayersByStatus(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	summary := &models.AuctionSummary{
		AuctionID:     auction.ID,
		Status:        auction.Status,
		PlayersSold:   counts[models.PlayerStatusSold],
		PlayersUnsold: counts[models.PlayerStatusUnsold],
		Teams:         make([]models.TeamSummary, 0, len(teams)),
	}
	for _, n := range counts {
		summary.PlayersTotal += n
	}

	hundred := decimal.NewFromInt(100)
	for _, team := range teams {
		spent := decimal.NewFromInt(team.SpentPoints)

		average := decimal.Zero
		if team.PlayersBought > 0 {
			average = spent.Div(decimal.NewFromInt(int64(team.PlayersBought)))
		}
		utilization := decimal.Zero
		if team.TotalPoints > 0 {
			utilization = spent.Mul(hundred).Div(decimal.NewFromInt(team.TotalPoints))
		}

		summary.Teams = append(summary.Teams, models.TeamSummary{
			TeamID:          team.ID,
			Name:            team.Name,
			TotalPoints:     team.TotalPoints,
			SpentPoints:     team.SpentPoints,
			AvailablePoints: team.AvailablePoints,
			PlayersBought:   team.PlayersBought,
			AveragePrice:    average.StringFixed(2),
			Utilization:     utilization.StringFixed(2),
		})
	}
	return summary, nil
}
