package domain

import "context"

// WebhookPayload is the canonical payment callback parsed by adapters.
// OrderID carries the marketplace correlation id (Order.TransactionID),
// not the provider's own identifier.
type WebhookPayload struct {
	PaymentStatus string
	OrderID       string
	PaymentID     string
	Raw           map[string]any
}

// Adapter parses provider-specific webhook bodies. Both JSON and
// form-encoded deliveries must be handled; anything else is rejected
// with ErrUnsupportedContentType before parsing.
type Adapter interface {
	Provider() string
	Parse(ctx context.Context, contentType string, payload []byte) (*WebhookPayload, error)
}
