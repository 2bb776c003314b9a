package nowpayments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Pexry/pexry2-sub001/internal/config"
	"github.com/Pexry/pexry2-sub001/internal/observability/tracing"
	"github.com/Pexry/pexry2-sub001/internal/payment/domain"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var ErrInvoiceFailed = errors.New("invoice_creation_failed")

// Client talks to the NOWPayments REST API. It implements
// domain.Provider for checkout invoice creation.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

func NewClient(cfg config.Config, log *zap.Logger) *Client {
	httpClient := resty.NewWithClient(tracing.WrapHTTPClient(&http.Client{})).
		SetBaseURL(strings.TrimRight(cfg.NowPaymentsBaseURL, "/")).
		SetHeader("x-api-key", cfg.NowPaymentsAPIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.PaymentTimeout)

	return &Client{
		http: httpClient,
		log:  log.Named("nowpayments.client"),
	}
}

type invoiceRequestBody struct {
	PriceAmount   float64 `json:"price_amount"`
	PriceCurrency string  `json:"price_currency"`
	OrderID       string  `json:"order_id"`
	OrderDesc     string  `json:"order_description,omitempty"`
}

type invoiceResponseBody struct {
	ID         string `json:"id"`
	InvoiceURL string `json:"invoice_url"`
	PayAddress string `json:"pay_address"`
}

func (c *Client) CreateInvoice(ctx context.Context, req domain.InvoiceRequest) (*domain.Invoice, error) {
	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	body := invoiceRequestBody{
		PriceAmount:   float64(req.AmountCents) / 100,
		PriceCurrency: currency,
		OrderID:       req.TransactionID,
		OrderDesc:     req.Description,
	}

	var result invoiceResponseBody
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post("/invoice")
	if err != nil {
		c.log.Warn("invoice request failed",
			zap.String("transaction_id", req.TransactionID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrInvoiceFailed, err)
	}

	if resp.IsError() {
		c.log.Warn("invoice request rejected",
			zap.String("transaction_id", req.TransactionID),
			zap.Int("status", resp.StatusCode()),
		)
		return nil, fmt.Errorf("%w: status %d", ErrInvoiceFailed, resp.StatusCode())
	}

	if result.InvoiceURL == "" {
		return nil, fmt.Errorf("%w: empty invoice url", ErrInvoiceFailed)
	}

	return &domain.Invoice{
		ID:         result.ID,
		InvoiceURL: result.InvoiceURL,
		PayAddress: result.PayAddress,
	}, nil
}
