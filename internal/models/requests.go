package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CreateAuctionRequest represents a request to create an auction
type CreateAuctionRequest struct {
	Name              string      `json:"name" binding:"required"`
	PointsPerTeam     int64       `json:"points_per_team" binding:"required,gt=0"`
	MinPlayersPerTeam int         `json:"min_players_per_team" binding:"gte=0"`
	MaxPlayersPerTeam int         `json:"max_players_per_team" binding:"gte=0"`
	TotalTeams        int         `json:"total_teams" binding:"gte=0"`
	BidIncrements     []int64     `json:"bid_increments"`
	AuctionDate       *time.Time  `json:"auction_date"`
	StatFields        []StatField `json:"stat_fields"`
	Categories        []string    `json:"categories"`
}

// UpdateAuctionRequest carries the editable auction attributes. Nil fields are left unchanged.
type UpdateAuctionRequest struct {
	Name              *string     `json:"name"`
	PointsPerTeam     *int64      `json:"points_per_team"`
	MinPlayersPerTeam *int        `json:"min_players_per_team"`
	MaxPlayersPerTeam *int        `json:"max_players_per_team"`
	TotalTeams        *int        `json:"total_teams"`
	BidIncrements     []int64     `json:"bid_increments"`
	AuctionDate       *time.Time  `json:"auction_date"`
	StatFields        []StatField `json:"stat_fields"`
	Categories        []string    `json:"categories"`
}

type SponsorRequest struct {
	Name    string `json:"name" binding:"required"`
	Logo    string `json:"logo"`
	Website string `json:"website"`
}

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required"`
	Logo        string `json:"logo"`
	OwnerName   string `json:"owner_name"`
	OwnerEmail  string `json:"owner_email"`
	OwnerMobile string `json:"owner_mobile"`
	UserID      string `json:"user_id"`
}

type UpdateTeamRequest struct {
	Name        *string `json:"name"`
	Logo        *string `json:"logo"`
	OwnerName   *string `json:"owner_name"`
	OwnerEmail  *string `json:"owner_email"`
	OwnerMobile *string `json:"owner_mobile"`
	UserID      *string `json:"user_id"`
}

type CreatePlayerRequest struct {
	Name      string                 `json:"name" binding:"required"`
	Category  string                 `json:"category"`
	Role      string                 `json:"role"`
	BasePrice int64                  `json:"base_price" binding:"gte=0"`
	Image     string                 `json:"image"`
	Mobile    string                 `json:"mobile"`
	Stats     map[string]interface{} `json:"stats"`
}

type UpdatePlayerRequest struct {
	Name      *string                `json:"name"`
	Category  *string                `json:"category"`
	Role      *string                `json:"role"`
	BasePrice *int64                 `json:"base_price"`
	Image     *string                `json:"image"`
	Mobile    *string                `json:"mobile"`
	Stats     map[string]interface{} `json:"stats"`
}

type RegistrationRequest struct {
	Name      string                 `json:"name" binding:"required"`
	Category  string                 `json:"category"`
	Role      string                 `json:"role"`
	Mobile    string                 `json:"mobile" binding:"required"`
	BasePrice int64                  `json:"base_price" binding:"gte=0"`
	Stats     map[string]interface{} `json:"stats"`
}

type PlaceBidRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
	TeamID   string `json:"team_id" binding:"required"`
	Amount   int64  `json:"amount"`
}

type SelectPlayerRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
}

type MarkSoldRequest struct {
	TeamID    string `json:"team_id" binding:"required"`
	SoldPrice int64  `json:"sold_price"`
	Override  bool   `json:"override"`
}

// BonusRequest keeps Amount as raw JSON so non-numeric input reaches the
// service and is reported as INVALID_AMOUNT. Both 500 and "500" are accepted.
type BonusRequest struct {
	TeamID string          `json:"team_id" binding:"required"`
	Amount json.RawMessage `json:"amount" binding:"required"`
}

// AmountText returns the amount as text with surrounding JSON quotes removed.
func (r *BonusRequest) AmountText() string {
	var s string
	if err := json.Unmarshal(r.Amount, &s); err == nil {
		return s
	}
	return string(r.Amount)
}

// AuctionState is the polling projection of a live auction.
type AuctionState struct {
	Auction       AuctionStateHeader `json:"auction"`
	CurrentPlayer *PlayerStateView   `json:"current_player"`
}

type AuctionStateHeader struct {
	ID              uuid.UUID     `json:"id"`
	Name            string        `json:"name"`
	Status          AuctionStatus `json:"status"`
	IsLive          bool          `json:"is_live"`
	CurrentPlayerID *uuid.UUID    `json:"current_player_id"`
	LastBidTime     *time.Time    `json:"last_bid_time"`
	PointsPerTeam   int64         `json:"points_per_team"`
	BidIncrements   []int64       `json:"bid_increments"`
}

type PlayerStateView struct {
	Player
	Bids []BidView `json:"bids"`
}

type BidView struct {
	TeamID   uuid.UUID `json:"team_id"`
	TeamName string    `json:"team_name"`
	Amount   int64     `json:"amount"`
	Time     time.Time `json:"time"`
}

// BonusResult reports the per-team outcome of a bonus grant.
type BonusResult struct {
	Amount    int64          `json:"amount"`
	Succeeded []uuid.UUID    `json:"succeeded"`
	Failed    []BonusFailure `json:"failed"`
}

type BonusFailure struct {
	TeamID uuid.UUID `json:"team_id"`
	Reason string    `json:"reason"`
	Error  string    `json:"error"`
}

// AuctionSummary is the per-team standing of an auction.
type AuctionSummary struct {
	AuctionID     uuid.UUID     `json:"auction_id"`
	Status        AuctionStatus `json:"status"`
	PlayersTotal  int64         `json:"players_total"`
	PlayersSold   int64         `json:"players_sold"`
	PlayersUnsold int64         `json:"players_unsold"`
	Teams         []TeamSummary `json:"teams"`
}

type TeamSummary struct {
	TeamID          uuid.UUID `json:"team_id"`
	Name            string    `json:"name"`
	TotalPoints     int64     `json:"total_points"`
	SpentPoints     int64     `json:"spent_points"`
	AvailablePoints int64     `json:"available_points"`
	PlayersBought   int       `json:"players_bought"`
	AveragePrice    string    `json:"average_price"`
	Utilization     string    `json:"utilization_percent"`
}

// ReconcileReport lists the teams whose ledger had drifted.
type ReconcileReport struct {
	AuctionID    uuid.UUID     `json:"auction_id"`
	TeamsChecked int           `json:"teams_checked"`
	Repaired     []LedgerDrift `json:"repaired"`
}

type LedgerDrift struct {
	TeamID          uuid.UUID `json:"team_id"`
	SpentBefore     int64     `json:"spent_before"`
	SpentAfter      int64     `json:"spent_after"`
	PlayersBefore   int       `json:"players_before"`
	PlayersAfter    int       `json:"players_after"`
	AvailableBefore int64     `json:"available_before"`
	AvailableAfter  int64     `json:"available_after"`
}
