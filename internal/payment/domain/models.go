package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// PaymentStatusFinished is the only callback status that settles an
// order; every other status is acknowledged and ignored.
const PaymentStatusFinished = "finished"

// WebhookEvent records every delivery the webhook surface accepts,
// giving replays an idempotency trail and operators an audit one.
type WebhookEvent struct {
	ID            snowflake.ID   `gorm:"primaryKey"`
	Provider      string         `gorm:"type:text;not null;uniqueIndex:ux_webhook_events_dedupe,priority:1"`
	TransactionID string         `gorm:"type:text;not null;index;uniqueIndex:ux_webhook_events_dedupe,priority:2"`
	PaymentID     string         `gorm:"type:text;not null;uniqueIndex:ux_webhook_events_dedupe,priority:3"`
	PaymentStatus string         `gorm:"type:text;not null;uniqueIndex:ux_webhook_events_dedupe,priority:4"`
	Payload       datatypes.JSON `gorm:"type:jsonb"`
	ReceivedAt    time.Time      `gorm:"not null"`
	ProcessedAt   *time.Time
}

func (WebhookEvent) TableName() string { return "payment_webhook_events" }

// InvoiceRequest asks the payment processor for a hosted invoice.
type InvoiceRequest struct {
	TransactionID string
	AmountCents   int64
	Currency      string
	Description   string
}

// Invoice is the processor's response; InvoiceURL is the buyer
// redirect target and must be non-empty for checkout to succeed.
type Invoice struct {
	ID         string
	InvoiceURL string
	PayAddress string
}

// Provider creates payment invoices with the external processor.
type Provider interface {
	CreateInvoice(ctx context.Context, req InvoiceRequest) (*Invoice, error)
}
