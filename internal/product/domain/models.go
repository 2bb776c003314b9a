package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Product is a digital good listed by a tenant. Archived products stay
// on record for order history but are no longer purchasable.
type Product struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID    snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Description *string      `gorm:"type:text" json:"description,omitempty"`
	PriceCents  int64        `gorm:"not null" json:"price_cents"`
	Archived    bool         `gorm:"not null;default:false" json:"archived"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

func (Product) TableName() string { return "products" }
