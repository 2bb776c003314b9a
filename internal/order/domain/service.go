package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// FreeOrderMessage is returned for the zero-total fast path.
const FreeOrderMessage = "Order marked as paid (free product)."

type CheckoutRequest struct {
	UserID     snowflake.ID
	TenantSlug string
	ProductIDs []string
}

// CheckoutResult carries the processor redirect URL, or a nil URL with
// an explanatory message for the zero-total fast path.
type CheckoutResult struct {
	Order   *Order  `json:"order"`
	URL     *string `json:"url"`
	Message string  `json:"message,omitempty"`
}

type Service interface {
	Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)

	Get(ctx context.Context, id snowflake.ID, actorUserID snowflake.ID) (*Order, error)
	ListForBuyer(ctx context.Context, userID snowflake.ID) ([]Order, error)
	ListForTenant(ctx context.Context, tenantID snowflake.ID, actorUserID snowflake.ID) ([]Order, error)

	// MarkDelivered moves a paid order to delivered. Seller only.
	MarkDelivered(ctx context.Context, id snowflake.ID, actorUserID snowflake.ID) (*Order, error)

	// SettlePayment unconditionally sets the order matching the
	// correlation id to paid and records the processor's payment id.
	// The set is idempotent under webhook replays.
	SettlePayment(ctx context.Context, transactionID string, paymentID string) (*Order, error)
}

var (
	ErrNotFound        = errors.New("order_not_found")
	ErrForbidden       = errors.New("order_forbidden")
	ErrInvalidRequest  = errors.New("invalid_checkout_request")
	ErrNotPaid         = errors.New("order_not_paid")
	ErrProviderFailure = errors.New("payment_provider_failure")
)
