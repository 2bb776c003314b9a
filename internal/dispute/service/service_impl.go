package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	auditdomain "github.com/Pexry/pexry2-sub001/internal/audit/domain"
	"github.com/Pexry/pexry2-sub001/internal/clock"
	"github.com/Pexry/pexry2-sub001/internal/config"
	disputedomain "github.com/Pexry/pexry2-sub001/internal/dispute/domain"
	"github.com/Pexry/pexry2-sub001/internal/events"
	notificationdomain "github.com/Pexry/pexry2-sub001/internal/notification/domain"
	orderdomain "github.com/Pexry/pexry2-sub001/internal/order/domain"
	tenantdomain "github.com/Pexry/pexry2-sub001/internal/tenant/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var validCategories = map[disputedomain.DisputeCategory]bool{
	disputedomain.CategoryNotDelivered:   true,
	disputedomain.CategoryNotAsDescribed: true,
	disputedomain.CategoryRefund:         true,
	disputedomain.CategoryOther:          true,
}

var validPriorities = map[disputedomain.DisputePriority]bool{
	disputedomain.PriorityLow:    true,
	disputedomain.PriorityMedium: true,
	disputedomain.PriorityHigh:   true,
}

var validStatuses = map[disputedomain.DisputeStatus]bool{
	disputedomain.DisputeStatusOpen:       true,
	disputedomain.DisputeStatusInProgress: true,
	disputedomain.DisputeStatusResolved:   true,
	disputedomain.DisputeStatusClosed:     true,
}

// strictTransitions is the forward-only state machine enforced when
// DisputeStrictTransitions is on.
var strictTransitions = map[disputedomain.DisputeStatus][]disputedomain.DisputeStatus{
	disputedomain.DisputeStatusOpen:       {disputedomain.DisputeStatusInProgress},
	disputedomain.DisputeStatusInProgress: {disputedomain.DisputeStatusResolved, disputedomain.DisputeStatusClosed},
	disputedomain.DisputeStatusResolved:   {disputedomain.DisputeStatusClosed},
}

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Cfg       config.Config
	TenantSvc tenantdomain.Service
	NotifSvc  notificationdomain.Service
	Outbox    *events.Outbox
	AuditSvc  auditdomain.Service
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	strict    bool
	tenantSvc tenantdomain.Service
	notifSvc  notificationdomain.Service
	outbox    *events.Outbox
	auditSvc  auditdomain.Service
}

func NewService(p Params) disputedomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("dispute.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		strict:    p.Cfg.DisputeStrictTransitions,
		tenantSvc: p.TenantSvc,
		notifSvc:  p.NotifSvc,
		outbox:    p.Outbox,
		auditSvc:  p.AuditSvc,
	}
}

func (s *Service) Open(ctx context.Context, req disputedomain.OpenRequest) (*disputedomain.Dispute, error) {
	subject := strings.TrimSpace(req.Subject)
	description := strings.TrimSpace(req.Description)
	if subject == "" || description == "" {
		return nil, disputedomain.ErrInvalidRequest
	}
	if !validCategories[req.Category] {
		return nil, disputedomain.ErrInvalidRequest
	}
	if req.Priority == "" {
		req.Priority = disputedomain.PriorityMedium
	}
	if !validPriorities[req.Priority] {
		return nil, disputedomain.ErrInvalidRequest
	}

	var order orderdomain.Order
	if err := s.db.WithContext(ctx).Where("id = ?", req.OrderID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, orderdomain.ErrNotFound
		}
		return nil, err
	}

	tenant, err := s.tenantSvc.GetByID(ctx, order.TenantID)
	if err != nil {
		return nil, err
	}

	buyerID := order.UserID
	sellerID := tenant.OwnerUserID
	if req.Actor.UserID != buyerID && req.Actor.UserID != sellerID {
		return nil, disputedomain.ErrForbidden
	}

	now := s.clock.Now().UTC()
	dispute := &disputedomain.Dispute{
		ID:          s.genID.Generate(),
		OrderID:     order.ID,
		BuyerID:     buyerID,
		SellerID:    sellerID,
		OpenedByID:  req.Actor.UserID,
		Subject:     subject,
		Description: description,
		Category:    req.Category,
		Priority:    req.Priority,
		Status:      disputedomain.DisputeStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(dispute).Error; err != nil {
			return err
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			TenantID: order.TenantID,
			Type:     events.EventDisputeOpened,
			Payload: events.DisputePayload{
				DisputeID: dispute.ID.String(),
				OrderID:   order.ID.String(),
			}.ToMap(),
			DedupeKey: events.EventDisputeOpened + ":" + dispute.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	counterparty := sellerID
	if req.Actor.UserID == sellerID {
		counterparty = buyerID
	}
	s.notify(ctx, counterparty, notificationdomain.TypeDisputeOpened,
		"Dispute opened",
		fmt.Sprintf("A dispute was opened for order %s.", order.ID))

	s.audit(ctx, dispute, "dispute.opened")
	return dispute, nil
}

func (s *Service) Get(ctx context.Context, actor disputedomain.Actor, id snowflake.ID) (*disputedomain.Dispute, error) {
	dispute, err := s.load(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(dispute, actor); err != nil {
		return nil, err
	}
	return dispute, nil
}

func (s *Service) List(ctx context.Context, req disputedomain.ListRequest) ([]disputedomain.Dispute, error) {
	query := s.db.WithContext(ctx).Model(&disputedomain.Dispute{})
	if !req.Actor.Agent {
		query = query.Where("buyer_id = ? OR seller_id = ?", req.Actor.UserID, req.Actor.UserID)
	}
	if req.Status != "" {
		if !validStatuses[req.Status] {
			return nil, disputedomain.ErrInvalidRequest
		}
		query = query.Where("status = ?", req.Status)
	}

	var disputes []disputedomain.Dispute
	err := query.Order("created_at DESC").Find(&disputes).Error
	return disputes, err
}

func (s *Service) AddMessage(ctx context.Context, actor disputedomain.Actor, id snowflake.ID, body string) (*disputedomain.DisputeMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, disputedomain.ErrInvalidRequest
	}

	dispute, err := s.load(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(dispute, actor); err != nil {
		return nil, err
	}
	if dispute.Status.Terminal() {
		return nil, disputedomain.ErrClosed
	}

	message := &disputedomain.DisputeMessage{
		ID:        s.genID.Generate(),
		DisputeID: dispute.ID,
		SenderID:  actor.UserID,
		FromAgent: actor.Agent,
		Body:      body,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

func (s *Service) ListMessages(ctx context.Context, actor disputedomain.Actor, id snowflake.ID) ([]disputedomain.DisputeMessage, error) {
	dispute, err := s.load(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(dispute, actor); err != nil {
		return nil, err
	}

	var messages []disputedomain.DisputeMessage
	err = s.db.WithContext(ctx).
		Where("dispute_id = ?", id).
		Order("created_at ASC, id ASC").
		Find(&messages).
		Error
	return messages, err
}

func (s *Service) UpdateStatus(ctx context.Context, actor disputedomain.Actor, id snowflake.ID, status disputedomain.DisputeStatus) (*disputedomain.Dispute, error) {
	if !validStatuses[status] {
		return nil, disputedomain.ErrInvalidRequest
	}

	dispute, err := s.load(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(dispute, actor); err != nil {
		return nil, err
	}
	// Participants may only close; everything else is agent work.
	if !actor.Agent && status != disputedomain.DisputeStatusClosed {
		return nil, disputedomain.ErrForbidden
	}

	if dispute.Status == status {
		return dispute, nil
	}
	if s.strict && !transitionAllowed(dispute.Status, status) {
		return nil, disputedomain.ErrInvalidTransition
	}

	now := s.clock.Now().UTC()
	values := map[string]any{
		"status":     status,
		"updated_at": now,
	}
	if status == disputedomain.DisputeStatusResolved {
		// Resolution releases the escrowed funds to the seller.
		values["funds_released"] = true
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&disputedomain.Dispute{}).Where("id = ?", id).Updates(values).Error; err != nil {
			return err
		}
		if status != disputedomain.DisputeStatusResolved {
			return nil
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventDisputeResolved,
			Payload: events.DisputePayload{
				DisputeID: dispute.ID.String(),
				OrderID:   dispute.OrderID.String(),
				Status:    string(status),
			}.ToMap(),
			DedupeKey: events.EventDisputeResolved + ":" + dispute.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	dispute.Status = status
	dispute.UpdatedAt = now
	if status == disputedomain.DisputeStatusResolved {
		dispute.FundsReleased = true
		message := fmt.Sprintf("Dispute for order %s has been resolved.", dispute.OrderID)
		s.notify(ctx, dispute.BuyerID, notificationdomain.TypeDisputeResolved, "Dispute resolved", message)
		s.notify(ctx, dispute.SellerID, notificationdomain.TypeDisputeResolved, "Dispute resolved", message)
	}

	s.audit(ctx, dispute, "dispute.status_changed")
	return dispute, nil
}

func (s *Service) Assign(ctx context.Context, actor disputedomain.Actor, id snowflake.ID, agentID snowflake.ID) (*disputedomain.Dispute, error) {
	if !actor.Agent {
		return nil, disputedomain.ErrForbidden
	}
	if agentID == 0 {
		return nil, disputedomain.ErrInvalidRequest
	}

	dispute, err := s.load(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if dispute.Status.Terminal() {
		return nil, disputedomain.ErrClosed
	}

	now := s.clock.Now().UTC()
	err = s.db.WithContext(ctx).Model(&disputedomain.Dispute{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"assigned_agent_id": agentID,
			"updated_at":        now,
		}).
		Error
	if err != nil {
		return nil, err
	}

	dispute.AssignedAgentID = &agentID
	dispute.UpdatedAt = now
	s.audit(ctx, dispute, "dispute.assigned")
	return dispute, nil
}

func (s *Service) load(ctx context.Context, id snowflake.ID, withMessages bool) (*disputedomain.Dispute, error) {
	query := s.db.WithContext(ctx)
	if withMessages {
		query = query.Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		})
	}

	var dispute disputedomain.Dispute
	err := query.Where("id = ?", id).First(&dispute).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, disputedomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dispute, nil
}

func requireParticipant(dispute *disputedomain.Dispute, actor disputedomain.Actor) error {
	if actor.Agent {
		return nil
	}
	if actor.UserID == dispute.BuyerID || actor.UserID == dispute.SellerID {
		return nil
	}
	return disputedomain.ErrForbidden
}

func transitionAllowed(from, to disputedomain.DisputeStatus) bool {
	for _, next := range strictTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *Service) notify(ctx context.Context, userID snowflake.ID, typ, title, message string) {
	if _, err := s.notifSvc.Create(ctx, notificationdomain.CreateRequest{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
	}); err != nil {
		s.log.Warn("dispute notification failed",
			zap.Int64("user_id", int64(userID)),
			zap.String("type", typ),
			zap.Error(err),
		)
	}
}

func (s *Service) audit(ctx context.Context, dispute *disputedomain.Dispute, action string) {
	targetID := dispute.ID.String()
	if err := s.auditSvc.AuditLog(ctx, nil, string(auditdomain.ActorTypeUser), nil, action, "dispute", &targetID, map[string]any{
		"order_id": dispute.OrderID.String(),
		"status":   string(dispute.Status),
	}); err != nil {
		s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}
