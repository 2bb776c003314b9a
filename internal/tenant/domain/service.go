package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	Slug        string
	Name        string
	OwnerUserID snowflake.ID
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Tenant, error)
}

var (
	ErrNotFound     = errors.New("tenant_not_found")
	ErrInvalidSlug  = errors.New("invalid_slug")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidOwner = errors.New("invalid_owner")
	ErrSlugTaken    = errors.New("slug_taken")
)
