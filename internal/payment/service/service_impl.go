package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Pexry/pexry2-sub001/internal/clock"
	obsmetrics "github.com/Pexry/pexry2-sub001/internal/observability/metrics"
	orderdomain "github.com/Pexry/pexry2-sub001/internal/order/domain"
	"github.com/Pexry/pexry2-sub001/internal/payment/adapters"
	paymentdomain "github.com/Pexry/pexry2-sub001/internal/payment/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     paymentdomain.Repository
	Adapters *adapters.Registry
	OrderSvc orderdomain.Service
	Metrics  *obsmetrics.MarketplaceMetrics
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     paymentdomain.Repository
	adapters *adapters.Registry
	orderSvc orderdomain.Service
	metrics  *obsmetrics.MarketplaceMetrics
}

func NewService(p Params) paymentdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("payment.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		adapters: p.Adapters,
		orderSvc: p.OrderSvc,
		metrics:  p.Metrics,
	}
}

// IngestWebhook parses and records a provider callback, then settles
// the matching order when the payment is finished. Lookup misses and
// non-final statuses are not errors: the provider retries on anything
// but an acknowledgement, and a miss here is not actionable for it.
func (s *Service) IngestWebhook(ctx context.Context, provider, contentType string, payload []byte) (paymentdomain.IngestResult, error) {
	adapter, ok := s.adapters.Get(provider)
	if !ok {
		return "", paymentdomain.ErrProviderNotFound
	}

	parsed, err := adapter.Parse(ctx, contentType, payload)
	if err != nil {
		s.metrics.IncWebhook("invalid")
		return "", err
	}

	event := &paymentdomain.WebhookEvent{
		ID:            s.genID.Generate(),
		Provider:      provider,
		TransactionID: parsed.OrderID,
		PaymentID:     parsed.PaymentID,
		PaymentStatus: parsed.PaymentStatus,
		Payload:       normalizePayload(payload, parsed.Raw),
		ReceivedAt:    s.clock.Now(),
	}

	inserted, err := s.repo.InsertEvent(ctx, s.db, event)
	if err != nil {
		s.log.Error("record webhook event",
			zap.String("provider", provider),
			zap.String("transaction_id", parsed.OrderID),
			zap.Error(err),
		)
		s.metrics.IncWebhook("error")
		return "", err
	}

	if parsed.PaymentStatus != paymentdomain.PaymentStatusFinished {
		s.log.Info("ignoring non-final payment status",
			zap.String("provider", provider),
			zap.String("transaction_id", parsed.OrderID),
			zap.String("payment_status", parsed.PaymentStatus),
		)
		s.metrics.IncWebhook("ignored")
		return paymentdomain.ResultIgnored, nil
	}

	order, err := s.orderSvc.SettlePayment(ctx, parsed.OrderID, parsed.PaymentID)
	if err != nil {
		if errors.Is(err, orderdomain.ErrNotFound) {
			s.log.Warn("webhook matched no order",
				zap.String("provider", provider),
				zap.String("transaction_id", parsed.OrderID),
			)
			s.metrics.IncWebhook("unmatched")
			return paymentdomain.ResultUnmatched, nil
		}
		s.metrics.IncWebhook("error")
		return "", err
	}

	if err := s.markProcessed(ctx, event.ID, inserted); err != nil {
		s.log.Warn("mark webhook event processed",
			zap.String("transaction_id", parsed.OrderID),
			zap.Error(err),
		)
	}

	s.log.Info("payment settled",
		zap.String("provider", provider),
		zap.String("transaction_id", parsed.OrderID),
		zap.String("payment_id", parsed.PaymentID),
		zap.Int64("order_id", int64(order.ID)),
	)
	s.metrics.IncWebhook("settled")

	if !inserted {
		return paymentdomain.ResultDuplicate, nil
	}
	return paymentdomain.ResultSettled, nil
}

func (s *Service) markProcessed(ctx context.Context, id snowflake.ID, inserted bool) error {
	if !inserted {
		return nil
	}
	return s.repo.MarkProcessed(ctx, s.db, id, s.clock.Now().UTC())
}

// normalizePayload prefers the raw body when it is valid JSON and falls
// back to re-encoding the parsed fields (form-encoded deliveries).
func normalizePayload(payload []byte, raw map[string]any) datatypes.JSON {
	if json.Valid(payload) {
		return datatypes.JSON(payload)
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return datatypes.JSON([]byte(`{}`))
	}
	return datatypes.JSON(encoded)
}
