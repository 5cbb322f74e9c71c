package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Team is a bidder in one auction. The budget fields are maintained by the
// ledger package only.
type Team struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuctionID       uuid.UUID `gorm:"type:uuid;not null;index" json:"auction_id"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	Logo            string    `gorm:"size:500" json:"logo"`
	OwnerName       string    `gorm:"size:255" json:"owner_name"`
	OwnerEmail      string    `gorm:"size:255" json:"owner_email"`
	OwnerMobile     string    `gorm:"size:50" json:"owner_mobile"`
	UserID          string    `gorm:"size:255;index" json:"user_id"`
	TotalPoints     int64     `gorm:"not null;default:0" json:"total_points"`
	SpentPoints     int64     `gorm:"not null;default:0" json:"spent_points"`
	AvailablePoints int64     `gorm:"not null;default:0" json:"available_points"`
	PlayersBought   int       `gorm:"not null;default:0" json:"players_bought"`
	Version         int64     `gorm:"not null;default:0" json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
