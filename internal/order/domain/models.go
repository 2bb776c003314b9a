package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// OrderStatus enumerates the order lifecycle.
type OrderStatus string

const (
	// OrderStatusPending awaits payment confirmation.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusPaid is set exclusively by the payment webhook, or at
	// creation for zero-total checkouts.
	OrderStatusPaid OrderStatus = "paid"
	// OrderStatusDelivered is set by seller fulfillment.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusExpired is set by the reconciliation sweep for pending
	// orders whose payment never confirmed. A late confirmation still
	// wins: the webhook's unconditional set moves expired orders to paid.
	OrderStatusExpired OrderStatus = "expired"
)

// Order is one purchase attempt against a single tenant. TransactionID
// is the correlation key the payment webhook joins on.
type Order struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID   snowflake.ID `gorm:"not null;index" json:"user_id"`
	TenantID snowflake.ID `gorm:"not null;index" json:"tenant_id"`

	Status      OrderStatus `gorm:"type:text;not null" json:"status"`
	AmountCents int64       `gorm:"not null" json:"amount_cents"`

	TransactionID        string  `gorm:"type:text;not null;uniqueIndex" json:"transaction_id"`
	NowPaymentsPaymentID *string `gorm:"type:text" json:"now_payments_payment_id,omitempty"`
	WalletAddress        *string `gorm:"type:text" json:"wallet_address,omitempty"`

	DeliveryStatus bool       `gorm:"not null;default:false" json:"delivery_status"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	ExpiresAt      *time.Time `gorm:"index" json:"expires_at,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

func (Order) TableName() string { return "orders" }

// OrderItem snapshots a purchased product and its price at checkout time.
type OrderItem struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrderID    snowflake.ID `gorm:"not null;index" json:"-"`
	ProductID  snowflake.ID `gorm:"not null;index" json:"product_id"`
	PriceCents int64        `gorm:"not null" json:"price_cents"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

func (OrderItem) TableName() string { return "order_items" }
