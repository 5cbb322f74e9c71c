package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuctionStatus string

const (
	AuctionStatusNotStarted AuctionStatus = "NOT_STARTED"
	AuctionStatusLive       AuctionStatus = "LIVE"
	AuctionStatusFinished   AuctionStatus = "FINISHED"
)

// StatField describes a custom player stat collected for an auction.
type StatField struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	DataType string `json:"data_type"` // text, number, boolean
	Required bool   `json:"required"`
}

// Sponsor is embedded in the auction record.
type Sponsor struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Logo    string `json:"logo"`
	Website string `json:"website"`
}

// Auction groups teams and players and carries the live-bidding state.
type Auction struct {
	ID                 uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string                         `gorm:"size:255;not null" json:"name"`
	PointsPerTeam      int64                          `gorm:"not null" json:"points_per_team"`
	MinPlayersPerTeam  int                            `gorm:"default:0" json:"min_players_per_team"`
	MaxPlayersPerTeam  int                            `gorm:"default:0" json:"max_players_per_team"`
	TotalTeams         int                            `gorm:"default:0" json:"total_teams"`
	BidIncrements      datatypes.JSONSlice[int64]     `json:"bid_increments"`
	AuctionDate        *time.Time                     `json:"auction_date"`
	StatFields         datatypes.JSONSlice[StatField] `json:"stat_fields"`
	Categories         datatypes.JSONSlice[string]    `json:"categories"`
	Sponsors           datatypes.JSONSlice[Sponsor]   `json:"sponsors"`
	Status             AuctionStatus                  `gorm:"size:20;not null;default:NOT_STARTED;index" json:"status"`
	IsLive             bool                           `gorm:"not null;default:false" json:"is_live"`
	IsRegistrationOpen bool                           `gorm:"not null;default:false" json:"is_registration_open"`
	CurrentPlayerID    *uuid.UUID                     `gorm:"type:uuid" json:"current_player_id"`
	LastBidTime        *time.Time                     `json:"last_bid_time"`
	Version            int64                          `gorm:"not null;default:0" json:"version"`
	CreatedAt          time.Time                      `json:"created_at"`
	UpdatedAt          time.Time                      `json:"updated_at"`
}

func (Auction) TableName() string {
	return "auctions"
}

func (a *Auction) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AuctionStatusNotStarted
	}
	return nil
}

// MinIncrement returns the smallest configured bid increment, 0 when none are set.
func (a *Auction) MinIncrement() int64 {
	var min int64
	for _, inc := range a.BidIncrements {
		if inc <= 0 {
			continue
		}
		if min == 0 || inc < min {
			min = inc
		}
	}
	return min
}
