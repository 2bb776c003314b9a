package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type AgentRole string

const (
	RoleAgent      AgentRole = "agent"
	RoleSupervisor AgentRole = "supervisor"
)

// Agent is a support staff member. Agents may read and act on any
// dispute; supervisors additionally manage agents and withdrawals.
type Agent struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Email        string       `gorm:"type:text;not null;uniqueIndex" json:"email"`
	DisplayName  string       `gorm:"type:text;not null" json:"display_name"`
	Role         AgentRole    `gorm:"type:text;not null" json:"role"`
	PasswordHash string       `gorm:"type:text;not null" json:"-"`
	Active       bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null" json:"updated_at"`
}

func (Agent) TableName() string { return "agents" }

func (r AgentRole) Valid() bool {
	return r == RoleAgent || r == RoleSupervisor
}
