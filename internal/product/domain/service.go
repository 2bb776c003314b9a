package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	TenantID    snowflake.ID
	ActorUserID snowflake.ID
	Name        string
	Description *string
	PriceCents  int64
}

type ListRequest struct {
	TenantID        snowflake.ID
	IncludeArchived bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Product, error)
	List(ctx context.Context, req ListRequest) ([]Product, error)
	Get(ctx context.Context, id snowflake.ID) (*Product, error)
	Archive(ctx context.Context, id snowflake.ID, actorUserID snowflake.ID) (*Product, error)

	// FindPurchasable returns the unarchived products among ids that
	// belong to tenantID. Callers compare the returned count against
	// the requested count; a mismatch covers missing, archived, and
	// cross-tenant products in one check.
	FindPurchasable(ctx context.Context, tenantID snowflake.ID, ids []snowflake.ID) ([]Product, error)
}

var (
	ErrNotFound     = errors.New("product_not_found")
	ErrInvalidName  = errors.New("invalid_product_name")
	ErrInvalidPrice = errors.New("invalid_product_price")
	ErrForbidden    = errors.New("product_forbidden")
)
