package nowpayments

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/url"
	"strings"

	"github.com/Pexry/pexry2-sub001/internal/payment/domain"
)

const ProviderName = "nowpayments"

// Adapter parses NOWPayments IPN callbacks. The gateway posts JSON by
// default but some proxy configurations re-encode the body as a form,
// so both shapes are accepted.
type Adapter struct{}

func NewAdapter() *Adapter { return &Adapter{} }

func (a *Adapter) Provider() string { return ProviderName }

func (a *Adapter) Parse(_ context.Context, contentType string, payload []byte) (*domain.WebhookPayload, error) {
	mediaType := contentType
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = parsed
	}

	switch strings.ToLower(mediaType) {
	case "application/json", "":
		return parseJSON(payload)
	case "application/x-www-form-urlencoded":
		return parseForm(payload)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedContentType, mediaType)
	}
}

type ipnBody struct {
	PaymentStatus string          `json:"payment_status"`
	OrderID       string          `json:"order_id"`
	PaymentID     json.RawMessage `json:"payment_id"`
}

func parseJSON(payload []byte) (*domain.WebhookPayload, error) {
	var body ipnBody
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}

	return &domain.WebhookPayload{
		PaymentStatus: body.PaymentStatus,
		OrderID:       body.OrderID,
		PaymentID:     rawMessageToString(body.PaymentID),
		Raw:           raw,
	}, nil
}

func parseForm(payload []byte) (*domain.WebhookPayload, error) {
	values, err := url.ParseQuery(string(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}

	raw := make(map[string]any, len(values))
	for k := range values {
		raw[k] = values.Get(k)
	}

	return &domain.WebhookPayload{
		PaymentStatus: values.Get("payment_status"),
		OrderID:       values.Get("order_id"),
		PaymentID:     values.Get("payment_id"),
		Raw:           raw,
	}, nil
}

// rawMessageToString tolerates payment_id arriving as either a JSON
// string or a bare number.
func rawMessageToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.Trim(string(raw), `"`)
}
