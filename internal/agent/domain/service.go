package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	Email       string
	DisplayName string
	Role        AgentRole
	Password    string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Agent, error)
	List(ctx context.Context, includeInactive bool) ([]Agent, error)
	Get(ctx context.Context, id snowflake.ID) (*Agent, error)

	// Authenticate verifies an active agent's credentials.
	Authenticate(ctx context.Context, email, password string) (*Agent, error)

	Deactivate(ctx context.Context, id snowflake.ID) (*Agent, error)
}

var (
	ErrNotFound           = errors.New("agent_not_found")
	ErrEmailTaken         = errors.New("agent_email_taken")
	ErrInvalidRequest     = errors.New("invalid_agent_request")
	ErrInvalidCredentials = errors.New("invalid_agent_credentials")
)
