package nowpayments

import (
	"context"
	"errors"
	"testing"

	"github.com/Pexry/pexry2-sub001/internal/payment/domain"
)

func TestParseJSONPayload(t *testing.T) {
	adapter := NewAdapter()
	body := []byte(`{"payment_status":"finished","order_id":"order-123","payment_id":"pay-456","pay_amount":12.5}`)

	parsed, err := adapter.Parse(context.Background(), "application/json; charset=utf-8", body)
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if parsed.PaymentStatus != "finished" {
		t.Fatalf("payment status = %q, want finished", parsed.PaymentStatus)
	}
	if parsed.OrderID != "order-123" {
		t.Fatalf("order id = %q, want order-123", parsed.OrderID)
	}
	if parsed.PaymentID != "pay-456" {
		t.Fatalf("payment id = %q, want pay-456", parsed.PaymentID)
	}
	if _, ok := parsed.Raw["pay_amount"]; !ok {
		t.Fatalf("raw payload missing pay_amount")
	}
}

func TestParseNumericPaymentID(t *testing.T) {
	adapter := NewAdapter()
	body := []byte(`{"payment_status":"waiting","order_id":"order-1","payment_id":987654}`)

	parsed, err := adapter.Parse(context.Background(), "application/json", body)
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if parsed.PaymentID != "987654" {
		t.Fatalf("payment id = %q, want 987654", parsed.PaymentID)
	}
}

func TestParseFormPayload(t *testing.T) {
	adapter := NewAdapter()
	body := []byte("payment_status=finished&order_id=order-9&payment_id=pay-9")

	parsed, err := adapter.Parse(context.Background(), "application/x-www-form-urlencoded", body)
	if err != nil {
		t.Fatalf("parse form: %v", err)
	}
	if parsed.PaymentStatus != "finished" || parsed.OrderID != "order-9" || parsed.PaymentID != "pay-9" {
		t.Fatalf("unexpected parse result: %+v", parsed)
	}
}

func TestParseRejectsUnsupportedContentType(t *testing.T) {
	adapter := NewAdapter()

	_, err := adapter.Parse(context.Background(), "text/plain", []byte("hello"))
	if !errors.Is(err, domain.ErrUnsupportedContentType) {
		t.Fatalf("err = %v, want ErrUnsupportedContentType", err)
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	adapter := NewAdapter()

	_, err := adapter.Parse(context.Background(), "application/json", []byte("{not json"))
	if !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("err = %v, want ErrInvalidPayload", err)
	}
}
