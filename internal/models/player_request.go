package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlayerRequestStatus string

const (
	PlayerRequestStatusPending  PlayerRequestStatus = "PENDING"
	PlayerRequestStatusApproved PlayerRequestStatus = "APPROVED"
	PlayerRequestStatusRejected PlayerRequestStatus = "REJECTED"
)

// PlayerRequest is a self-registration waiting for admin review.
type PlayerRequest struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	AuctionID uuid.UUID           `gorm:"type:uuid;not null;index" json:"auction_id"`
	Name      string              `gorm:"size:255;not null" json:"name"`
	Category  string              `gorm:"size:100" json:"category"`
	Role      string              `gorm:"size:100" json:"role"`
	Mobile    string              `gorm:"size:50" json:"mobile"`
	BasePrice int64               `gorm:"not null;default:0" json:"base_price"`
	Stats     JSONB               `gorm:"type:jsonb" json:"stats"`
	Status    PlayerRequestStatus `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	PlayerID  *uuid.UUID          `gorm:"type:uuid" json:"player_id"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func (PlayerRequest) TableName() string {
	return "player_requests"
}

func (r *PlayerRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = PlayerRequestStatusPending
	}
	return nil
}
