package domain

import (
	"context"
	"errors"

	"github.com/Pexry/pexry2-sub001/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	UserID    snowflake.ID
	Type      string
	Title     string
	Message   string
	ActionURL *string
}

type ListRequest struct {
	UserID snowflake.ID
	Type   string
	Unread bool
	pagination.Pagination
}

type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	NextPageToken string         `json:"next_page_token,omitempty"`
}

// Service delivers in-app notifications. Create is internal: callers
// log failures and never propagate them into their own result.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Notification, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	UnreadCount(ctx context.Context, userID snowflake.ID) (int64, error)
	MarkRead(ctx context.Context, userID, id snowflake.ID) error
	MarkAllRead(ctx context.Context, userID snowflake.ID) (int64, error)
	Delete(ctx context.Context, userID, id snowflake.ID) error
}

var (
	ErrNotFound       = errors.New("notification_not_found")
	ErrInvalidRequest = errors.New("invalid_notification_request")
)
