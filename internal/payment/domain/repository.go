package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// InsertEvent stores a webhook delivery. Returns false when an
	// identical (provider, transaction_id, payment_id, payment_status)
	// delivery was already recorded. TransactionID is part of the key
	// because form deliveries may omit payment_id entirely.
	InsertEvent(ctx context.Context, db *gorm.DB, event *WebhookEvent) (bool, error)
	MarkProcessed(ctx context.Context, db *gorm.DB, id snowflake.ID, processedAt time.Time) error
}
