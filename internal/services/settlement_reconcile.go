package services

import (
	"context"

	"sports-auction/internal/ledger"
	"sports-auction/internal/lock"
	"sports-auction/internal/models"
	"sports-auction/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reconcile rebuilds every team's spent points and player count from the
// players it owns and repairs any team whose stored ledger disagrees.
func (s *SettlementService) Reconcile(ctx context.Context, auctionID uuid.UUID) (*models.ReconcileReport, error) {
	if _, err := s.repo.GetAuction(ctx, auctionID); err != nil {
		return nil, err
	}
	teams, err := s.repo.ListTeams(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	report := &models.ReconcileReport{
		AuctionID:    auctionID,
		TeamsChecked: len(teams),
		Repaired:     []models.LedgerDrift{},
	}
	for _, t := range teams {
		drift, err := s.reconcileTeam(ctx, auctionID, t.ID)
		if err != nil {
			return report, err
		}
		if drift != nil {
			report.Repaired = append(report.Repaired, *drift)
		}
	}

	if len(report.Repaired) > 0 {
		s.logger.Warn("Ledger drift repaired",
			zap.String("auction_id", auctionID.String()),
			zap.Int("teams", len(report.Repaired)),
		)
	}
	return report, nil
}

func (s *SettlementService) reconcileTeam(ctx context.Context, auctionID, teamID uuid.UUID) (*models.LedgerDrift, error) {
	var drift *models.LedgerDrift
	err := s.locked(ctx, []string{lock.Key("team", teamID)}, func() error {
		return s.retry(ctx, models.AuditActionReconcile, func() error {
			drift = nil
			team, err := s.repo.GetTeam(ctx, teamID)
			if err != nil {
				return err
			}
			owned, err := s.repo.ListTeamPlayers(ctx, teamID)
			if err != nil {
				return err
			}
			prices := make([]int64, 0, len(owned))
			for _, p := range owned {
				prices = append(prices, p.SoldPrice)
			}

			before := *team
			ledger.Rebuild(team, prices)
			if team.SpentPoints == before.SpentPoints &&
				team.PlayersBought == before.PlayersBought &&
				team.AvailablePoints == before.AvailablePoints {
				return nil
			}

			d := &models.LedgerDrift{
				TeamID:          team.ID,
				SpentBefore:     before.SpentPoints,
				SpentAfter:      team.SpentPoints,
				PlayersBefore:   before.PlayersBought,
				PlayersAfter:    team.PlayersBought,
				AvailableBefore: before.AvailablePoints,
				AvailableAfter:  team.AvailablePoints,
			}
			err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
				if err := tx.UpdateTeam(ctx, team); err != nil {
					return err
				}
				return audit(ctx, tx, auctionID, models.AuditActionReconcile, "team", uuidPtr(team.ID), models.JSONB{
					"spent_before":   d.SpentBefore,
					"spent_after":    d.SpentAfter,
					"players_before": d.PlayersBefore,
					"players_after":  d.PlayersAfter,
				})
			})
			if err != nil {
				return err
			}
			drift = d
			return nil
		})
	})
	return drift, err
}
