package service

import (
	"context"
	"errors"
	"fmt"

	auditdomain "github.com/Pexry/pexry2-sub001/internal/audit/domain"
	"github.com/Pexry/pexry2-sub001/internal/clock"
	"github.com/Pexry/pexry2-sub001/internal/config"
	"github.com/Pexry/pexry2-sub001/internal/events"
	notificationdomain "github.com/Pexry/pexry2-sub001/internal/notification/domain"
	obsmetrics "github.com/Pexry/pexry2-sub001/internal/observability/metrics"
	orderdomain "github.com/Pexry/pexry2-sub001/internal/order/domain"
	paymentdomain "github.com/Pexry/pexry2-sub001/internal/payment/domain"
	productdomain "github.com/Pexry/pexry2-sub001/internal/product/domain"
	tenantdomain "github.com/Pexry/pexry2-sub001/internal/tenant/domain"
	walletdomain "github.com/Pexry/pexry2-sub001/internal/wallet/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Cfg        config.Config
	TenantSvc  tenantdomain.Service
	ProductSvc productdomain.Service
	Provider   paymentdomain.Provider
	WalletSvc  walletdomain.Service
	NotifSvc   notificationdomain.Service
	Outbox     *events.Outbox
	AuditSvc   auditdomain.Service
	Metrics    *obsmetrics.MarketplaceMetrics
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	cfg        config.Config
	tenantSvc  tenantdomain.Service
	productSvc productdomain.Service
	provider   paymentdomain.Provider
	walletSvc  walletdomain.Service
	notifSvc   notificationdomain.Service
	outbox     *events.Outbox
	auditSvc   auditdomain.Service
	metrics    *obsmetrics.MarketplaceMetrics
}

func NewService(p Params) orderdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("order.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		cfg:        p.Cfg,
		tenantSvc:  p.TenantSvc,
		productSvc: p.ProductSvc,
		provider:   p.Provider,
		walletSvc:  p.WalletSvc,
		notifSvc:   p.NotifSvc,
		outbox:     p.Outbox,
		auditSvc:   p.AuditSvc,
		metrics:    p.Metrics,
	}
}

func (s *Service) Checkout(ctx context.Context, req orderdomain.CheckoutRequest) (*orderdomain.CheckoutResult, error) {
	if req.UserID == 0 || len(req.ProductIDs) == 0 {
		return nil, orderdomain.ErrInvalidRequest
	}

	tenant, err := s.tenantSvc.GetBySlug(ctx, req.TenantSlug)
	if err != nil {
		return nil, err
	}

	productIDs, err := parseProductIDs(req.ProductIDs)
	if err != nil {
		return nil, err
	}

	products, err := s.productSvc.FindPurchasable(ctx, tenant.ID, productIDs)
	if err != nil {
		return nil, err
	}
	// Coarse validation: any missing, archived, or cross-tenant product
	// shows up as a count mismatch.
	if len(products) != len(productIDs) {
		return nil, productdomain.ErrNotFound
	}

	var total int64
	items := make([]orderdomain.OrderItem, 0, len(products))
	for _, product := range products {
		total += product.PriceCents
		items = append(items, orderdomain.OrderItem{
			ID:         s.genID.Generate(),
			ProductID:  product.ID,
			PriceCents: product.PriceCents,
		})
	}

	now := s.clock.Now().UTC()
	order := &orderdomain.Order{
		ID:            s.genID.Generate(),
		UserID:        req.UserID,
		TenantID:      tenant.ID,
		AmountCents:   total,
		TransactionID: uuid.NewString(),
		Items:         items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	if total == 0 {
		return s.checkoutFree(ctx, order, tenant.OwnerUserID)
	}

	order.Status = orderdomain.OrderStatusPending
	expiresAt := now.Add(s.cfg.OrderExpiryTTL)
	order.ExpiresAt = &expiresAt

	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}

	invoice, err := s.provider.CreateInvoice(ctx, paymentdomain.InvoiceRequest{
		TransactionID: order.TransactionID,
		AmountCents:   total,
		Description:   fmt.Sprintf("Order %s", order.ID),
	})
	if err != nil {
		// The pending order stays behind for the expiry sweep; a
		// retried checkout gets a fresh transaction id.
		s.log.Error("create invoice",
			zap.Int64("order_id", int64(order.ID)),
			zap.String("transaction_id", order.TransactionID),
			zap.Error(err),
		)
		return nil, orderdomain.ErrProviderFailure
	}
	if invoice.PayAddress != "" {
		addr := invoice.PayAddress
		order.WalletAddress = &addr
		if err := s.db.WithContext(ctx).Model(order).Update("wallet_address", addr).Error; err != nil {
			s.log.Warn("store pay address", zap.Int64("order_id", int64(order.ID)), zap.Error(err))
		}
	}

	s.audit(ctx, order, "order.checkout")
	s.metrics.IncOrderCreated(string(orderdomain.OrderStatusPending))

	url := invoice.InvoiceURL
	return &orderdomain.CheckoutResult{Order: order, URL: &url}, nil
}

// checkoutFree settles a zero-total order immediately. The webhook
// never fires for these, so the paid side-effects run inline.
func (s *Service) checkoutFree(ctx context.Context, order *orderdomain.Order, sellerID snowflake.ID) (*orderdomain.CheckoutResult, error) {
	order.Status = orderdomain.OrderStatusPaid

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			TenantID: order.TenantID,
			Type:     events.EventOrderPaid,
			Payload: events.OrderPaidPayload{
				OrderID:       order.ID.String(),
				TransactionID: order.TransactionID,
				AmountCents:   order.AmountCents,
			}.ToMap(),
			DedupeKey: events.EventOrderPaid + ":" + order.TransactionID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, order, "order.checkout")
	s.metrics.IncOrderCreated(string(orderdomain.OrderStatusPaid))

	return &orderdomain.CheckoutResult{
		Order:   order,
		URL:     nil,
		Message: orderdomain.FreeOrderMessage,
	}, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID, actorUserID snowflake.ID) (*orderdomain.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireParticipant(ctx, order, actorUserID); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) ListForBuyer(ctx context.Context, userID snowflake.ID) ([]orderdomain.Order, error) {
	var orders []orderdomain.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).
		Error
	return orders, err
}

func (s *Service) ListForTenant(ctx context.Context, tenantID snowflake.ID, actorUserID snowflake.ID) ([]orderdomain.Order, error) {
	tenant, err := s.tenantSvc.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.OwnerUserID != actorUserID {
		return nil, orderdomain.ErrForbidden
	}

	var orders []orderdomain.Order
	err = s.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&orders).
		Error
	return orders, err
}

func (s *Service) MarkDelivered(ctx context.Context, id snowflake.ID, actorUserID snowflake.ID) (*orderdomain.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	tenant, err := s.tenantSvc.GetByID(ctx, order.TenantID)
	if err != nil {
		return nil, err
	}
	if tenant.OwnerUserID != actorUserID {
		return nil, orderdomain.ErrForbidden
	}
	if order.Status != orderdomain.OrderStatusPaid {
		return nil, orderdomain.ErrNotPaid
	}

	now := s.clock.Now().UTC()
	err = s.db.WithContext(ctx).Model(&orderdomain.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":          orderdomain.OrderStatusDelivered,
			"delivery_status": true,
			"delivered_at":    now,
			"updated_at":      now,
		}).
		Error
	if err != nil {
		return nil, err
	}

	order.Status = orderdomain.OrderStatusDelivered
	order.DeliveryStatus = true
	order.DeliveredAt = &now
	order.UpdatedAt = now

	s.audit(ctx, order, "order.delivered")
	return order, nil
}

// SettlePayment is the webhook's unconditional set: whatever state the
// order is in, a finished confirmation moves it to paid. Replays and
// late confirmations for expired orders land in the same place, which
// is what makes the webhook surface idempotent.
func (s *Service) SettlePayment(ctx context.Context, transactionID string, paymentID string) (*orderdomain.Order, error) {
	if transactionID == "" {
		return nil, orderdomain.ErrNotFound
	}

	var order orderdomain.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").Where("transaction_id = ?", transactionID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return orderdomain.ErrNotFound
			}
			return err
		}

		now := s.clock.Now().UTC()
		values := map[string]any{
			"status":     orderdomain.OrderStatusPaid,
			"updated_at": now,
		}
		if paymentID != "" {
			values["now_payments_payment_id"] = paymentID
		}
		if err := tx.Model(&orderdomain.Order{}).Where("id = ?", order.ID).Updates(values).Error; err != nil {
			return err
		}
		order.Status = orderdomain.OrderStatusPaid
		if paymentID != "" {
			order.NowPaymentsPaymentID = &paymentID
		}
		order.UpdatedAt = now

		return s.outbox.PublishTx(ctx, tx, events.Event{
			TenantID: order.TenantID,
			Type:     events.EventOrderPaid,
			Payload: events.OrderPaidPayload{
				OrderID:       order.ID.String(),
				TransactionID: order.TransactionID,
				PaymentID:     paymentID,
				AmountCents:   order.AmountCents,
			}.ToMap(),
			DedupeKey: events.EventOrderPaid + ":" + order.TransactionID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.settleSideEffects(ctx, &order)
	return &order, nil
}

// settleSideEffects runs the advisory work after a settlement commits:
// seller credit, sale notification, audit. Failures are logged and
// never surfaced to the webhook acknowledgement.
func (s *Service) settleSideEffects(ctx context.Context, order *orderdomain.Order) {
	tenant, err := s.tenantSvc.GetByID(ctx, order.TenantID)
	if err != nil {
		s.log.Error("resolve seller for settled order",
			zap.Int64("order_id", int64(order.ID)),
			zap.Error(err),
		)
		return
	}

	if order.AmountCents > 0 {
		if err := s.walletSvc.CreditForOrder(ctx, tenant.OwnerUserID, order.ID, order.AmountCents); err != nil {
			s.log.Error("credit seller wallet",
				zap.Int64("order_id", int64(order.ID)),
				zap.Error(err),
			)
		}
	}

	if _, err := s.notifSvc.Create(ctx, notificationdomain.CreateRequest{
		UserID:  tenant.OwnerUserID,
		Type:    notificationdomain.TypeSale,
		Title:   "New sale",
		Message: fmt.Sprintf("Order %s has been paid.", order.ID),
	}); err != nil {
		s.log.Warn("sale notification failed",
			zap.Int64("order_id", int64(order.ID)),
			zap.Error(err),
		)
	}

	s.audit(ctx, order, "order.paid")
}

func (s *Service) load(ctx context.Context, id snowflake.ID) (*orderdomain.Order, error) {
	var order orderdomain.Order
	err := s.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, orderdomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// requireParticipant allows the buyer and the selling tenant's owner.
func (s *Service) requireParticipant(ctx context.Context, order *orderdomain.Order, actorUserID snowflake.ID) error {
	if order.UserID == actorUserID {
		return nil
	}
	tenant, err := s.tenantSvc.GetByID(ctx, order.TenantID)
	if err != nil {
		return err
	}
	if tenant.OwnerUserID == actorUserID {
		return nil
	}
	return orderdomain.ErrForbidden
}

func (s *Service) audit(ctx context.Context, order *orderdomain.Order, action string) {
	tenantID := order.TenantID
	targetID := order.ID.String()
	if err := s.auditSvc.AuditLog(ctx, &tenantID, string(auditdomain.ActorTypeUser), nil, action, "order", &targetID, map[string]any{
		"status":       string(order.Status),
		"amount_cents": order.AmountCents,
	}); err != nil {
		s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}

// parseProductIDs rejects malformed and repeated ids alike: every
// requested id must resolve to a distinct product or the checkout
// fails the count check.
func parseProductIDs(raw []string) ([]snowflake.ID, error) {
	ids := make([]snowflake.ID, 0, len(raw))
	seen := make(map[snowflake.ID]bool, len(raw))
	for _, value := range raw {
		id, err := snowflake.ParseString(value)
		if err != nil || id == 0 || seen[id] {
			return nil, productdomain.ErrNotFound
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
