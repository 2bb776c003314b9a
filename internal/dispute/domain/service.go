package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// Actor identifies who is acting on a dispute. Agents bypass the
// participant check; regular users must be the buyer or the seller.
type Actor struct {
	UserID snowflake.ID
	Agent  bool
}

type OpenRequest struct {
	Actor       Actor
	OrderID     snowflake.ID
	Subject     string
	Description string
	Category    DisputeCategory
	Priority    DisputePriority
}

type ListRequest struct {
	Actor  Actor
	Status DisputeStatus
}

type Service interface {
	Open(ctx context.Context, req OpenRequest) (*Dispute, error)
	Get(ctx context.Context, actor Actor, id snowflake.ID) (*Dispute, error)
	List(ctx context.Context, req ListRequest) ([]Dispute, error)

	// AddMessage appends to the thread. Closed disputes reject new
	// messages.
	AddMessage(ctx context.Context, actor Actor, id snowflake.ID, body string) (*DisputeMessage, error)
	ListMessages(ctx context.Context, actor Actor, id snowflake.ID) ([]DisputeMessage, error)

	UpdateStatus(ctx context.Context, actor Actor, id snowflake.ID, status DisputeStatus) (*Dispute, error)
	Assign(ctx context.Context, actor Actor, id snowflake.ID, agentID snowflake.ID) (*Dispute, error)
}

var (
	ErrNotFound          = errors.New("dispute_not_found")
	ErrForbidden         = errors.New("dispute_forbidden")
	ErrInvalidRequest    = errors.New("invalid_dispute_request")
	ErrClosed            = errors.New("dispute_closed")
	ErrInvalidTransition = errors.New("invalid_dispute_transition")
)
