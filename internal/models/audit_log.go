package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog records auctioneer actions for the audit trail
type AuditLog struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AuctionID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"auction_id"`
	Actor        string     `gorm:"size:255" json:"actor"`
	Action       string     `gorm:"size:100;not null" json:"action"`
	ResourceType string     `gorm:"size:50" json:"resource_type"`
	ResourceID   *uuid.UUID `gorm:"type:uuid" json:"resource_id"`
	Details      JSONB      `gorm:"type:jsonb" json:"details"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

const (
	AuditActionStart              = "AUCTION_START"
	AuditActionResume             = "AUCTION_RESUME"
	AuditActionFinish             = "AUCTION_FINISH"
	AuditActionToggleRegistration = "REGISTRATION_TOGGLE"
	AuditActionSelectPlayer       = "SELECT_PLAYER"
	AuditActionSold               = "PLAYER_SOLD"
	AuditActionUnsold             = "PLAYER_UNSOLD"
	AuditActionRemoveFromTeam     = "PLAYER_REMOVED"
	AuditActionRelist             = "PLAYER_RELIST"
	AuditActionBonus              = "TEAM_BONUS"
	AuditActionReconcile          = "LEDGER_RECONCILE"
)
