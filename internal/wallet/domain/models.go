package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// EntryDirection represents credit or debit postings.
type EntryDirection string

const (
	EntryDirectionCredit EntryDirection = "credit"
	EntryDirectionDebit  EntryDirection = "debit"
)

const (
	SourceTypeOrder      = "order"
	SourceTypeWithdrawal = "withdrawal"
	SourceTypeAdjustment = "adjustment"
)

// WalletEntry is an immutable posting against a user's balance. The
// source unique index makes order credits and withdrawal debits
// idempotent under replays.
type WalletEntry struct {
	ID          snowflake.ID   `gorm:"primaryKey"`
	UserID      snowflake.ID   `gorm:"not null;index:idx_wallet_entries_user"`
	Direction   EntryDirection `gorm:"type:text;not null;uniqueIndex:ux_wallet_entries_source,priority:1"`
	AmountCents int64          `gorm:"not null"`
	SourceType  string         `gorm:"type:text;not null;uniqueIndex:ux_wallet_entries_source,priority:2"`
	SourceID    string         `gorm:"type:text;not null;uniqueIndex:ux_wallet_entries_source,priority:3"`
	CreatedAt   time.Time      `gorm:"not null"`
}

func (WalletEntry) TableName() string { return "wallet_entries" }

type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusPaid     WithdrawalStatus = "paid"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
)

// Withdrawal is a request to move balance out to a crypto wallet.
type Withdrawal struct {
	ID            snowflake.ID     `gorm:"primaryKey" json:"id"`
	UserID        snowflake.ID     `gorm:"not null;index" json:"user_id"`
	AmountCents   int64            `gorm:"not null" json:"amount_cents"`
	WalletAddress string           `gorm:"type:text;not null" json:"wallet_address"`
	Status        WithdrawalStatus `gorm:"type:text;not null;index" json:"status"`
	ResolvedAt    *time.Time       `json:"resolved_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (Withdrawal) TableName() string { return "withdrawals" }
