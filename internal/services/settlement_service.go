package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"sports-auction/internal/apperr"
	"sports-auction/internal/ledger"
	"sports-auction/internal/lock"
	"sports-auction/internal/models"
	"sports-auction/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BonusTargetAll grants a bonus to every team of the auction.
const BonusTargetAll = "ALL"

// SettlementService closes a player's auction and keeps team ledgers in step.
// Every player write that moves points is committed in the same transaction
// as the team write.
type SettlementService struct {
	*Core
}

func NewSettlementService(core *Core) *SettlementService {
	return &SettlementService{Core: core}
}

// MarkSold assigns the player to a team. A non-positive soldPrice means "use
// the top bid". A price that differs from the top bid needs override.
func (s *SettlementService) MarkSold(ctx context.Context, playerID, teamID uuid.UUID, soldPrice int64, override bool) (*models.Player, error) {
	keys := []string{lock.Key("player", playerID), lock.Key("team", teamID)}

	var result *models.Player
	err := s.locked(ctx, keys, func() error {
		return s.retry(ctx, models.AuditActionSold, func() error {
			player, err := s.repo.GetPlayer(ctx, playerID)
			if err != nil {
				return err
			}
			auction, err := s.repo.GetAuction(ctx, player.AuctionID)
			if err != nil {
				if apperr.KindOf(err) == apperr.KindNotFound {
					return apperr.ErrAuctionNotLive
				}
				return err
			}
			if !auction.IsLive {
				return apperr.ErrAuctionNotLive
			}
			team, err := s.repo.GetAuctionTeam(ctx, player.AuctionID, teamID)
			if err != nil {
				return err
			}
			if player.Status == models.PlayerStatusSold {
				return apperr.ErrInvalidState.WithMessage("player is already sold")
			}

			price := soldPrice
			switch {
			case price <= 0:
				if player.CurrentTopBid <= 0 {
					return apperr.ErrInvalidAmount.WithMessage("no sold price given and the player has no bids")
				}
				price = player.CurrentTopBid
			case price != player.CurrentTopBid && !override:
				return apperr.ErrSoldPriceMismatch.WithMessage("sold price %d does not match the top bid %d", price, player.CurrentTopBid)
			}

			if !ledger.CanAfford(team, price) {
				return apperr.ErrInsufficientBudget.WithMessage("team has %d points available, sold price is %d", team.AvailablePoints, price)
			}
			if auction.MaxPlayersPerTeam > 0 && team.PlayersBought >= auction.MaxPlayersPerTeam {
				return apperr.ErrRosterFull.WithMessage("team already has %d players", team.PlayersBought)
			}

			player.Status = models.PlayerStatusSold
			player.SoldPrice = price
			player.TeamID = uuidPtr(team.ID)
			ledger.ApplySale(team, price)

			err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
				if err := tx.UpdatePlayer(ctx, player); err != nil {
					return err
				}
				if err := tx.UpdateTeam(ctx, team); err != nil {
					return err
				}
				return audit(ctx, tx, player.AuctionID, models.AuditActionSold, "player", uuidPtr(player.ID), models.JSONB{
					"team_id":    team.ID.String(),
					"price":      price,
					"top_bid":    player.CurrentTopBid,
					"overridden": price != player.CurrentTopBid,
				})
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

	s.logger.Info("Player sold",
		zap.String("player_id", playerID.String()),
		zap.String("team_id", teamID.String()),
		zap.Int64("price", result.SoldPrice),
	)
	return result, nil
}

// MarkUnsold closes the player without a sale. If the player had been sold
// the sale is reversed on the owning team. Calling it again changes nothing.
func (s *SettlementService) MarkUnsold(ctx context.Context, playerID uuid.UUID) (*models.Player, error) {
	return s.release(ctx, playerID, models.AuditActionUnsold)
}

// RemoveFromTeam reverses a sale and refunds the sold price to the team.
func (s *SettlementService) RemoveFromTeam(ctx context.Context, playerID uuid.UUID) (*models.Player, error) {
	return s.release(ctx, playerID, models.AuditActionRemoveFromTeam)
}

// release moves a player to UNSOLD and refunds its team, if any.
func (s *SettlementService) release(ctx context.Context, playerID uuid.UUID, action string) (*models.Player, error) {
	var result *models.Player
	err := s.locked(ctx, []string{lock.Key("player", playerID)}, func() error {
		player, err := s.repo.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}

		// The owning team cannot change while the player lock is held.
		var keys []string
		if player.TeamID != nil {
			keys = append(keys, lock.Key("team", *player.TeamID))
		}

		return s.locked(ctx, keys, func() error {
			return s.retry(ctx, action, func() error {
				player, err := s.repo.GetPlayer(ctx, playerID)
				if err != nil {
					return err
				}
				if player.Status == models.PlayerStatusUnsold && player.TeamID == nil && player.SoldPrice == 0 {
					result = player
					return nil
				}

				refund := player.SoldPrice
				prevTeamID := player.TeamID

				var team *models.Team
				if prevTeamID != nil {
					team, err = s.repo.GetTeam(ctx, *prevTeamID)
					if err != nil && apperr.KindOf(err) != apperr.KindNotFound {
						return err
					}
				}

				player.Status = models.PlayerStatusUnsold
				player.SoldPrice = 0
				player.TeamID = nil

				details := models.JSONB{"refund": refund}
				if team != nil {
					ledger.ApplyRefund(team, refund)
					details["team_id"] = team.ID.String()
				}

				err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
					if err := tx.UpdatePlayer(ctx, player); err != nil {
						return err
					}
					if team != nil {
						if err := tx.UpdateTeam(ctx, team); err != nil {
							return err
						}
					}
					return audit(ctx, tx, player.AuctionID, action, "player", uuidPtr(player.ID), details)
				})
				if err != nil {
					return err
				}
				result = player
				return nil
			})
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Relist starts a fresh bidding session: the top bid and bid history are
// cleared. Sold players must be removed from their team first.
func (s *SettlementService) Relist(ctx context.Context, playerID uuid.UUID) (*models.Player, error) {
	var result *models.Player
	err := s.locked(ctx, []string{lock.Key("player", playerID)}, func() error {
		return s.retry(ctx, models.AuditActionRelist, func() error {
			player, err := s.repo.GetPlayer(ctx, playerID)
			if err != nil {
				return err
			}
			if player.Status == models.PlayerStatusSold {
				return apperr.ErrInvalidState.WithMessage("sold player must be removed from the team before relisting")
			}

			clearedBids := len(player.Bids)
			player.Status = models.PlayerStatusUnsold
			player.TeamID = nil
			player.SoldPrice = 0
			player.CurrentTopBid = 0
			player.Bids = nil

			err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
				if err := tx.UpdatePlayer(ctx, player); err != nil {
					return err
				}
				return audit(ctx, tx, player.AuctionID, models.AuditActionRelist, "player", uuidPtr(player.ID),
					models.JSONB{"cleared_bids": clearedBids})
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
	return result, nil
}

// ParseBonusAmount accepts a positive base-10 integer.
func ParseBonusAmount(raw string) (int64, error) {
	amount, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || amount <= 0 {
		return 0, apperr.ErrInvalidAmount.WithMessage("bonus amount %q is not a positive integer", raw)
	}
	return amount, nil
}

// AddBonus raises TotalPoints for one team or, with BonusTargetAll, for every
// team of the auction. Each team is updated in its own transaction and the
// result reports which teams succeeded and which failed.
func (s *SettlementService) AddBonus(ctx context.Context, auctionID uuid.UUID, target, rawAmount string) (*models.BonusResult, error) {
	amount, err := ParseBonusAmount(rawAmount)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetAuction(ctx, auctionID); err != nil {
		return nil, err
	}

	var teamIDs []uuid.UUID
	if strings.EqualFold(strings.TrimSpace(target), BonusTargetAll) {
		teams, err := s.repo.ListTeams(ctx, auctionID)
		if err != nil {
			return nil, err
		}
		for _, team := range teams {
			teamIDs = append(teamIDs, team.ID)
		}
	} else {
		teamID, err := uuid.Parse(strings.TrimSpace(target))
		if err != nil {
			return nil, apperr.ErrTeamNotFound.WithMessage("invalid team id %q", target)
		}
		if _, err := s.repo.GetAuctionTeam(ctx, auctionID, teamID); err != nil {
			return nil, err
		}
		teamIDs = append(teamIDs, teamID)
	}

	result := &models.BonusResult{
		Amount:    amount,
		Succeeded: []uuid.UUID{},
		Failed:    []models.BonusFailure{},
	}
	for _, teamID := range teamIDs {
		err := s.bonusTeam(ctx, auctionID, teamID, amount)
		if err == nil {
			result.Succeeded = append(result.Succeeded, teamID)
			continue
		}
		if len(teamIDs) == 1 {
			return nil, fmt.Errorf("bonus for team %s: %w", teamID, err)
		}
		apperr.LogError(s.logger, err, "Bonus failed", zap.String("team_id", teamID.String()))
		result.Failed = append(result.Failed, models.BonusFailure{
			TeamID: teamID,
			Reason: apperr.From(err).Reason(),
			Error:  err.Error(),
		})
	}
	return result, nil
}

func (s *SettlementService) bonusTeam(ctx context.Context, auctionID, teamID uuid.UUID, amount int64) error {
	return s.locked(ctx, []string{lock.Key("team", teamID)}, func() error {
		return s.retry(ctx, models.AuditActionBonus, func() error {
			team, err := s.repo.GetAuctionTeam(ctx, auctionID, teamID)
			if err != nil {
				return err
			}
			before := team.TotalPoints
			ledger.ApplyBonus(team, amount)

			return s.repo.WithTx(ctx, func(tx *repository.Repository) error {
				if err := tx.UpdateTeam(ctx, team); err != nil {
					return err
				}
				return audit(ctx, tx, auctionID, models.AuditActionBonus, "team", uuidPtr(team.ID), models.JSONB{
					"amount":       amount,
					"total_before": before,
					"total_after":  team.TotalPoints,
				})
			})
		})
	})
}
