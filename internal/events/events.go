package events

// Marketplace event types recorded in the outbox.
const (
	EventOrderPaid           = "order.paid"
	EventOrderExpired        = "order.expired"
	EventDisputeOpened       = "dispute.opened"
	EventDisputeResolved     = "dispute.resolved"
	EventWithdrawalRequested = "withdrawal.requested"
	EventWithdrawalPaid      = "withdrawal.paid"
	EventWithdrawalRejected  = "withdrawal.rejected"
)

// OrderPaidPayload captures the minimal data downstream consumers need
// to react to a settled order.
type OrderPaidPayload struct {
	OrderID       string `json:"order_id"`
	TransactionID string `json:"transaction_id"`
	PaymentID     string `json:"payment_id,omitempty"`
	AmountCents   int64  `json:"amount_cents"`
}

func (p OrderPaidPayload) ToMap() map[string]any {
	payload := map[string]any{
		"order_id":       p.OrderID,
		"transaction_id": p.TransactionID,
		"amount_cents":   p.AmountCents,
	}
	if p.PaymentID != "" {
		payload["payment_id"] = p.PaymentID
	}
	return payload
}

// DisputePayload captures the minimal data to fan out dispute events.
type DisputePayload struct {
	DisputeID string `json:"dispute_id"`
	OrderID   string `json:"order_id"`
	Status    string `json:"status,omitempty"`
}

func (p DisputePayload) ToMap() map[string]any {
	payload := map[string]any{
		"dispute_id": p.DisputeID,
		"order_id":   p.OrderID,
	}
	if p.Status != "" {
		payload["status"] = p.Status
	}
	return payload
}
