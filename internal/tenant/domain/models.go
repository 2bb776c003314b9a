package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tenant is a seller shop. Products belong to exactly one tenant and
// only the owning user may mutate either.
type Tenant struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Slug        string       `gorm:"type:text;not null;uniqueIndex" json:"slug"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	OwnerUserID snowflake.ID `gorm:"not null;index" json:"owner_user_id"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

func (Tenant) TableName() string { return "tenants" }
