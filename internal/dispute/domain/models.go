package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type DisputeStatus string

const (
	DisputeStatusOpen       DisputeStatus = "open"
	DisputeStatusInProgress DisputeStatus = "in_progress"
	DisputeStatusResolved   DisputeStatus = "resolved"
	DisputeStatusClosed     DisputeStatus = "closed"
)

type DisputeCategory string

const (
	CategoryNotDelivered   DisputeCategory = "not_delivered"
	CategoryNotAsDescribed DisputeCategory = "not_as_described"
	CategoryRefund         DisputeCategory = "refund"
	CategoryOther          DisputeCategory = "other"
)

type DisputePriority string

const (
	PriorityLow    DisputePriority = "low"
	PriorityMedium DisputePriority = "medium"
	PriorityHigh   DisputePriority = "high"
)

// Dispute ties a buyer-seller disagreement to one order. Access is
// restricted to the two parties and support agents.
type Dispute struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	OrderID     snowflake.ID    `gorm:"not null;index" json:"order_id"`
	BuyerID     snowflake.ID    `gorm:"not null;index" json:"buyer_id"`
	SellerID    snowflake.ID    `gorm:"not null;index" json:"seller_id"`
	OpenedByID  snowflake.ID    `gorm:"not null" json:"opened_by_id"`
	Subject     string          `gorm:"type:text;not null" json:"subject"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Category    DisputeCategory `gorm:"type:text;not null" json:"category"`
	Priority    DisputePriority `gorm:"type:text;not null" json:"priority"`
	Status      DisputeStatus   `gorm:"type:text;not null;index" json:"status"`

	FundsReleased   bool          `gorm:"not null;default:false" json:"funds_released"`
	AssignedAgentID *snowflake.ID `json:"assigned_agent_id,omitempty"`

	Messages []DisputeMessage `gorm:"foreignKey:DisputeID" json:"messages,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Dispute) TableName() string { return "disputes" }

// DisputeMessage is an append-only thread entry, ordered by creation.
type DisputeMessage struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	DisputeID snowflake.ID `gorm:"not null;index" json:"dispute_id"`
	SenderID  snowflake.ID `gorm:"not null" json:"sender_id"`
	FromAgent bool         `gorm:"not null;default:false" json:"from_agent"`
	Body      string       `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
}

func (DisputeMessage) TableName() string { return "dispute_messages" }

// Terminal reports whether no further messages are accepted.
func (s DisputeStatus) Terminal() bool {
	return s == DisputeStatusClosed
}
