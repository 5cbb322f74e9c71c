package services

import (
	"context"
	"strings"

	"sports-auction/internal/apperr"
	"sports-auction/internal/ledger"
	"sports-auction/internal/lock"
	"sports-auction/internal/models"

	"github.com/google/uuid"
)

type TeamService struct {
	*Core
}

func NewTeamService(core *Core) *TeamService {
	return &TeamService{Core: core}
}

// Create registers a team with the auction's full points allowance
func (s *TeamService) Create(ctx context.Context, auctionID uuid.UUID, req *models.CreateTeamRequest) (*models.Team, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.ErrInvalidInput.WithMessage("team name is required")
	}

	var team *models.Team
	err := s.locked(ctx, []string{lock.Key("auction", auctionID)}, func() error {
		auction, err := s.repo.GetAuction(ctx, auctionID)
		if err != nil {
			return err
		}
		if auction.TotalTeams > 0 {
			existing, err := s.repo.ListTeams(ctx, auctionID)
			if err != nil {
				return err
			}
			if len(existing) >= auction.TotalTeams {
				return apperr.ErrInvalidState.WithMessage("auction already has %d teams", auction.TotalTeams)
			}
		}

		team = &models.Team{
			AuctionID:   auction.ID,
			Name:        strings.TrimSpace(req.Name),
			Logo:        req.Logo,
			OwnerName:   req.OwnerName,
			OwnerEmail:  req.OwnerEmail,
			OwnerMobile: req.OwnerMobile,
			UserID:      req.UserID,
		}
		ledger.Init(team, auction.PointsPerTeam)
		return s.repo.CreateTeam(ctx, team)
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (s *TeamService) Get(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	return s.repo.GetTeam(ctx, id)
}

func (s *TeamService) List(ctx context.Context, auctionID uuid.UUID) ([]*models.Team, error) {
	if _, err := s.repo.GetAuction(ctx, auctionID); err != nil {
		return nil, err
	}
	return s.repo.ListTeams(ctx, auctionID)
}

// Update edits profile fields. Budget fields are not editable here.
func (s *TeamService) Update(ctx context.Context, id uuid.UUID, req *models.UpdateTeamRequest) (*models.Team, error) {
	var result *models.Team
	err := s.locked(ctx, []string{lock.Key("team", id)}, func() error {
		return s.retry(ctx, "TEAM_UPDATE", func() error {
			team, err := s.repo.GetTeam(ctx, id)
			if err != nil {
				return err
			}
			if req.Name != nil {
				if strings.TrimSpace(*req.Name) == "" {
					return apperr.ErrInvalidInput.WithMessage("team name cannot be empty")
				}
				team.Name = strings.TrimSpace(*req.Name)
			}
			if req.Logo != nil {
				team.Logo = *req.Logo
			}
			if req.OwnerName != nil {
				team.OwnerName = *req.OwnerName
			}
			if req.OwnerEmail != nil {
				team.OwnerEmail = *req.OwnerEmail
			}
			if req.OwnerMobile != nil {
				team.OwnerMobile = *req.OwnerMobile
			}
			if req.UserID != nil {
				team.UserID = *req.UserID
			}
			if err := s.repo.UpdateTeam(ctx, team); err != nil {
				return err
			}
			result = team
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a team that owns no players
func (s *TeamService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.locked(ctx, []string{lock.Key("team", id)}, func() error {
		if _, err := s.repo.GetTeam(ctx, id); err != nil {
			return err
		}
		owned, err := s.repo.CountTeamPlayers(ctx, id)
		if err != nil {
			return err
		}
		if owned > 0 {
			return apperr.ErrInvalidState.WithMessage("team still owns %d players", owned)
		}
		return s.repo.DeleteTeam(ctx, id)
	})
}
