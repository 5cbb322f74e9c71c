// Package ledger maintains the per-team budget fields. Recompute is the only
// place AvailablePoints is assigned; every mutation of TotalPoints or
// SpentPoints goes through a function here and ends with Recompute.
package ledger

import (
	"fmt"

	"sports-auction/internal/models"
)

// Recompute sets AvailablePoints = TotalPoints - SpentPoints.
func Recompute(team *models.Team) {
	team.AvailablePoints = team.TotalPoints - team.SpentPoints
}

// Init prepares a new team's budget from the auction allowance.
func Init(team *models.Team, pointsPerTeam int64) {
	team.TotalPoints = pointsPerTeam
	team.SpentPoints = 0
	team.PlayersBought = 0
	Recompute(team)
}

// ApplySale charges price to the team and counts one more player.
func ApplySale(team *models.Team, price int64) {
	team.SpentPoints += price
	team.PlayersBought++
	Recompute(team)
}

// ApplyRefund reverses a sale of refund points. Spent points and the player
// count never go below zero, even if refunds exceed prior sales.
func ApplyRefund(team *models.Team, refund int64) {
	if refund < 0 {
		refund = 0
	}
	team.SpentPoints -= refund
	if team.SpentPoints < 0 {
		team.SpentPoints = 0
	}
	team.PlayersBought--
	if team.PlayersBought < 0 {
		team.PlayersBought = 0
	}
	Recompute(team)
}

// ApplyBonus grows the team's total allowance.
func ApplyBonus(team *models.Team, amount int64) {
	team.TotalPoints += amount
	Recompute(team)
}

// Rebuild derives SpentPoints and PlayersBought from the prices of the
// players the team currently owns.
func Rebuild(team *models.Team, soldPrices []int64) {
	var spent int64
	for _, price := range soldPrices {
		spent += price
	}
	team.SpentPoints = spent
	team.PlayersBought = len(soldPrices)
	Recompute(team)
}

// CanAfford reports whether the team can cover amount.
func CanAfford(team *models.Team, amount int64) bool {
	return team.AvailablePoints >= amount
}

// Verify returns an error describing the first broken ledger invariant.
func Verify(team *models.Team) error {
	if team.AvailablePoints != team.TotalPoints-team.SpentPoints {
		return fmt.Errorf("team %s: available %d != total %d - spent %d",
			team.ID, team.AvailablePoints, team.TotalPoints, team.SpentPoints)
	}
	if team.SpentPoints < 0 {
		return fmt.Errorf("team %s: negative spent points %d", team.ID, team.SpentPoints)
	}
	if team.PlayersBought < 0 {
		return fmt.Errorf("team %s: negative players bought %d", team.ID, team.PlayersBought)
	}
	return nil
}
