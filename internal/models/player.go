package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PlayerStatus string

const (
	PlayerStatusNotInAuction PlayerStatus = "NOT_IN_AUCTION"
	PlayerStatusInAuction    PlayerStatus = "IN_AUCTION"
	PlayerStatusSold         PlayerStatus = "SOLD"
	PlayerStatusUnsold       PlayerStatus = "UNSOLD"
)

// Bid is one accepted offer for a player. Bids are only appended.
type Bid struct {
	TeamID uuid.UUID `json:"team_id"`
	Amount int64     `json:"amount"`
	Time   time.Time `json:"time"`
}

type Player struct {
	ID            uuid.UUID                `gorm:"type:uuid;primaryKey" json:"id"`
	AuctionID     uuid.UUID                `gorm:"type:uuid;not null;index" json:"auction_id"`
	Name          string                   `gorm:"size:255;not null" json:"name"`
	Category      string                   `gorm:"size:100;index" json:"category"`
	Role          string                   `gorm:"size:100" json:"role"`
	BasePrice     int64                    `gorm:"not null;default:0" json:"base_price"`
	Image         string                   `gorm:"size:500" json:"image"`
	Mobile        string                   `gorm:"size:50" json:"mobile"`
	Stats         JSONB                    `gorm:"type:jsonb" json:"stats"`
	Status        PlayerStatus             `gorm:"size:20;not null;default:NOT_IN_AUCTION;index" json:"status"`
	SoldPrice     int64                    `gorm:"not null;default:0" json:"sold_price"`
	TeamID        *uuid.UUID               `gorm:"type:uuid;index" json:"team_id"`
	CurrentTopBid int64                    `gorm:"not null;default:0" json:"current_top_bid"`
	Bids          datatypes.JSONSlice[Bid] `json:"bids"`
	Version       int64                    `gorm:"not null;default:0" json:"version"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

func (Player) TableName() string {
	return "players"
}

func (p *Player) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = PlayerStatusNotInAuction
	}
	return nil
}

// IsSold reports whether the player is owned by a team.
func (p *Player) IsSold() bool {
	return p.Status == PlayerStatusSold && p.TeamID != nil
}
