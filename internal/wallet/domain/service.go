package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// Balance summarizes a user's wallet. AvailableCents is the spendable
// remainder after pending withdrawals are reserved.
type Balance struct {
	BalanceCents   int64 `json:"balance_cents"`
	PendingCents   int64 `json:"pending_cents"`
	AvailableCents int64 `json:"available_cents"`
}

type WithdrawalRequest struct {
	UserID        snowflake.ID
	AmountCents   int64
	WalletAddress string
}

type Service interface {
	// CreditForOrder credits the seller with a settled order's total.
	// Replays for the same order are no-ops.
	CreditForOrder(ctx context.Context, userID, orderID snowflake.ID, amountCents int64) error

	GetBalance(ctx context.Context, userID snowflake.ID) (Balance, error)
	RequestWithdrawal(ctx context.Context, req WithdrawalRequest) (*Withdrawal, error)
	ListWithdrawals(ctx context.Context, userID snowflake.ID) ([]Withdrawal, error)
	ListPendingWithdrawals(ctx context.Context) ([]Withdrawal, error)

	// PayWithdrawal and RejectWithdrawal resolve a pending request.
	// Caller must already be authorized as a supervisor.
	PayWithdrawal(ctx context.Context, id snowflake.ID) (*Withdrawal, error)
	RejectWithdrawal(ctx context.Context, id snowflake.ID) (*Withdrawal, error)
}

var (
	ErrNotFound            = errors.New("withdrawal_not_found")
	ErrInvalidRequest      = errors.New("invalid_withdrawal_request")
	ErrInsufficientBalance = errors.New("insufficient_balance")
	ErrNotPending          = errors.New("withdrawal_not_pending")
)
