package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	TypeSale               = "sale"
	TypeDisputeOpened      = "dispute_opened"
	TypeDisputeResolved    = "dispute_resolved"
	TypeWithdrawalPaid     = "withdrawal_paid"
	TypeWithdrawalRejected = "withdrawal_rejected"
	TypeGeneral            = "general"
)

// Notification is scoped strictly to its owning user; the only mutable
// field is the read flag.
type Notification struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"not null;index:idx_notifications_user" json:"user_id"`
	Type      string       `gorm:"type:text;not null" json:"type"`
	Title     string       `gorm:"type:text;not null" json:"title"`
	Message   string       `gorm:"type:text;not null" json:"message"`
	Read      bool         `gorm:"not null;default:false" json:"read"`
	ActionURL *string      `gorm:"type:text" json:"action_url,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
