package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Pexry/pexry2-sub001/internal/clock"
	disputedomain "github.com/Pexry/pexry2-sub001/internal/dispute/domain"
	"github.com/Pexry/pexry2-sub001/internal/events"
	notificationdomain "github.com/Pexry/pexry2-sub001/internal/notification/domain"
	orderdomain "github.com/Pexry/pexry2-sub001/internal/order/domain"
	tenantdomain "github.com/Pexry/pexry2-sub001/internal/tenant/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeTenants struct {
	tenants map[snowflake.ID]*tenantdomain.Tenant
}

func (f *fakeTenants) Create(context.Context, tenantdomain.CreateRequest) (*tenantdomain.Tenant, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTenants) GetBySlug(context.Context, string) (*tenantdomain.Tenant, error) {
	return nil, tenantdomain.ErrNotFound
}

func (f *fakeTenants) GetByID(_ context.Context, id snowflake.ID) (*tenantdomain.Tenant, error) {
	if t, ok := f.tenants[id]; ok {
		return t, nil
	}
	return nil, tenantdomain.ErrNotFound
}

type recordingNotifier struct {
	created []notificationdomain.CreateRequest
}

func (r *recordingNotifier) Create(_ context.Context, req notificationdomain.CreateRequest) (*notificationdomain.Notification, error) {
	r.created = append(r.created, req)
	return &notificationdomain.Notification{UserID: req.UserID, Type: req.Type}, nil
}

func (r *recordingNotifier) List(context.Context, notificationdomain.ListRequest) (notificationdomain.ListResponse, error) {
	return notificationdomain.ListResponse{}, nil
}

func (r *recordingNotifier) UnreadCount(context.Context, snowflake.ID) (int64, error) { return 0, nil }

func (r *recordingNotifier) MarkRead(context.Context, snowflake.ID, snowflake.ID) error { return nil }

func (r *recordingNotifier) MarkAllRead(context.Context, snowflake.ID) (int64, error) { return 0, nil }

func (r *recordingNotifier) Delete(context.Context, snowflake.ID, snowflake.ID) error { return nil }

type noopAudit struct{}

func (noopAudit) AuditLog(context.Context, *snowflake.ID, string, *string, string, string, *string, map[string]any) error {
	return nil
}

type disputeFixture struct {
	svc      *Service
	db       *gorm.DB
	notifier *recordingNotifier

	orderID  snowflake.ID
	buyerID  snowflake.ID
	sellerID snowflake.ID
	agent    disputedomain.Actor
	buyer    disputedomain.Actor
	seller   disputedomain.Actor
	stranger disputedomain.Actor
}

func setupDisputeService(t *testing.T, strict bool) *disputeFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:dispute_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id INTEGER PRIMARY KEY,
			user_id BIGINT NOT NULL,
			tenant_id BIGINT NOT NULL,
			status TEXT NOT NULL,
			amount_cents BIGINT NOT NULL,
			transaction_id TEXT NOT NULL UNIQUE,
			now_payments_payment_id TEXT,
			wallet_address TEXT,
			delivery_status BOOLEAN NOT NULL DEFAULT FALSE,
			delivered_at DATETIME,
			expires_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS disputes (
			id INTEGER PRIMARY KEY,
			order_id BIGINT NOT NULL,
			buyer_id BIGINT NOT NULL,
			seller_id BIGINT NOT NULL,
			opened_by_id BIGINT NOT NULL,
			subject TEXT NOT NULL,
			description TEXT NOT NULL,
			category TEXT NOT NULL,
			priority TEXT NOT NULL,
			status TEXT NOT NULL,
			funds_released BOOLEAN NOT NULL DEFAULT FALSE,
			assigned_agent_id BIGINT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS dispute_messages (
			id INTEGER PRIMARY KEY,
			dispute_id BIGINT NOT NULL,
			sender_id BIGINT NOT NULL,
			from_agent BOOLEAN NOT NULL DEFAULT FALSE,
			body TEXT NOT NULL,
			created_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS marketplace_events (
			id INTEGER PRIMARY KEY,
			tenant_id BIGINT NOT NULL,
			event_type TEXT NOT NULL,
			payload TEXT,
			dedupe_key TEXT,
			published BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME,
			UNIQUE (tenant_id, dedupe_key)
		)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	tenantID := node.Generate()
	sellerID := node.Generate()
	buyerID := node.Generate()
	orderID := node.Generate()

	now := time.Now().UTC()
	if err := db.Exec(
		`INSERT INTO orders (id, user_id, tenant_id, status, amount_cents, transaction_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		orderID, buyerID, tenantID, orderdomain.OrderStatusPaid, 2500, orderID.String(), now, now,
	).Error; err != nil {
		t.Fatalf("insert order: %v", err)
	}

	notifier := &recordingNotifier{}
	svc := &Service{
		db:     db,
		log:    zap.NewNop(),
		genID:  node,
		clock:  clock.SystemClock{},
		strict: strict,
		tenantSvc: &fakeTenants{tenants: map[snowflake.ID]*tenantdomain.Tenant{
			tenantID: {ID: tenantID, Slug: "acme", Name: "Acme", OwnerUserID: sellerID},
		}},
		notifSvc: notifier,
		outbox:   events.NewOutbox(db, node),
		auditSvc: noopAudit{},
	}

	return &disputeFixture{
		svc:      svc,
		db:       db,
		notifier: notifier,

		orderID:  orderID,
		buyerID:  buyerID,
		sellerID: sellerID,
		agent:    disputedomain.Actor{UserID: node.Generate(), Agent: true},
		buyer:    disputedomain.Actor{UserID: buyerID},
		seller:   disputedomain.Actor{UserID: sellerID},
		stranger: disputedomain.Actor{UserID: node.Generate()},
	}
}

func openDispute(t *testing.T, f *disputeFixture, actor disputedomain.Actor) *disputedomain.Dispute {
	t.Helper()
	dispute, err := f.svc.Open(context.Background(), disputedomain.OpenRequest{
		Actor:       actor,
		OrderID:     f.orderID,
		Subject:     "Order never arrived",
		Description: "Paid three days ago, nothing delivered.",
		Category:    disputedomain.CategoryNotDelivered,
	})
	if err != nil {
		t.Fatalf("open dispute: %v", err)
	}
	return dispute
}

func TestOpenNotifiesCounterparty(t *testing.T) {
	f := setupDisputeService(t, true)

	dispute := openDispute(t, f, f.buyer)
	if dispute.Status != disputedomain.DisputeStatusOpen {
		t.Fatalf("status = %s, want open", dispute.Status)
	}
	if dispute.Priority != disputedomain.PriorityMedium {
		t.Fatalf("priority = %s, want defaulted medium", dispute.Priority)
	}

	if len(f.notifier.created) != 1 {
		t.Fatalf("got %d notifications, want 1", len(f.notifier.created))
	}
	if n := f.notifier.created[0]; n.UserID != f.sellerID || n.Type != notificationdomain.TypeDisputeOpened {
		t.Fatalf("unexpected notification %+v", n)
	}
}

func TestOpenRejectsNonParticipant(t *testing.T) {
	f := setupDisputeService(t, true)

	_, err := f.svc.Open(context.Background(), disputedomain.OpenRequest{
		Actor:       f.stranger,
		OrderID:     f.orderID,
		Subject:     "s",
		Description: "d",
		Category:    disputedomain.CategoryOther,
	})
	if !errors.Is(err, disputedomain.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestAccessRestrictedToParticipantsAndAgents(t *testing.T) {
	f := setupDisputeService(t, true)
	dispute := openDispute(t, f, f.buyer)

	for _, actor := range []disputedomain.Actor{f.buyer, f.seller, f.agent} {
		if _, err := f.svc.Get(context.Background(), actor, dispute.ID); err != nil {
			t.Fatalf("get as %v: %v", actor, err)
		}
	}
	if _, err := f.svc.Get(context.Background(), f.stranger, dispute.ID); !errors.Is(err, disputedomain.ErrForbidden) {
		t.Fatalf("stranger get err = %v, want ErrForbidden", err)
	}
}

func TestMessagesAppendOnlyAndOrdered(t *testing.T) {
	f := setupDisputeService(t, true)
	dispute := openDispute(t, f, f.buyer)

	if _, err := f.svc.AddMessage(context.Background(), f.buyer, dispute.ID, "first"); err != nil {
		t.Fatalf("buyer message: %v", err)
	}
	if _, err := f.svc.AddMessage(context.Background(), f.agent, dispute.ID, "second"); err != nil {
		t.Fatalf("agent message: %v", err)
	}
	if _, err := f.svc.AddMessage(context.Background(), f.stranger, dispute.ID, "nope"); !errors.Is(err, disputedomain.ErrForbidden) {
		t.Fatalf("stranger message err = %v, want ErrForbidden", err)
	}

	messages, err := f.svc.ListMessages(context.Background(), f.seller, dispute.ID)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[0].Body != "first" || messages[1].Body != "second" {
		t.Fatalf("messages out of order: %+v", messages)
	}
	if !messages[1].FromAgent {
		t.Fatalf("agent message not flagged")
	}
}

func TestClosedDisputeRejectsMessages(t *testing.T) {
	f := setupDisputeService(t, false)
	dispute := openDispute(t, f, f.buyer)

	if _, err := f.svc.UpdateStatus(context.Background(), f.agent, dispute.ID, disputedomain.DisputeStatusClosed); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := f.svc.AddMessage(context.Background(), f.buyer, dispute.ID, "too late"); !errors.Is(err, disputedomain.ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
}

func TestStrictTransitions(t *testing.T) {
	f := setupDisputeService(t, true)
	dispute := openDispute(t, f, f.buyer)

	// open cannot jump straight to resolved.
	if _, err := f.svc.UpdateStatus(context.Background(), f.agent, dispute.ID, disputedomain.DisputeStatusResolved); !errors.Is(err, disputedomain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}

	if _, err := f.svc.UpdateStatus(context.Background(), f.agent, dispute.ID, disputedomain.DisputeStatusInProgress); err != nil {
		t.Fatalf("open -> in_progress: %v", err)
	}
	resolved, err := f.svc.UpdateStatus(context.Background(), f.agent, dispute.ID, disputedomain.DisputeStatusResolved)
	if err != nil {
		t.Fatalf("in_progress -> resolved: %v", err)
	}
	if !resolved.FundsReleased {
		t.Fatalf("resolution did not release funds")
	}

	// Resolved cannot reopen.
	if _, err := f.svc.UpdateStatus(context.Background(), f.agent, dispute.ID, disputedomain.DisputeStatusOpen); !errors.Is(err, disputedomain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestFreeFormTransitionsWhenStrictOff(t *testing.T) {
	f := setupDisputeService(t, false)
	dispute := openDispute(t, f, f.buyer)

	if _, err := f.svc.UpdateStatus(context.Background(), f.agent, dispute.ID, disputedomain.DisputeStatusResolved); err != nil {
		t.Fatalf("open -> resolved (free-form): %v", err)
	}
}

func TestResolutionNotifiesBothParties(t *testing.T) {
	f := setupDisputeService(t, true)
	dispute := openDispute(t, f, f.buyer)
	f.notifier.created = nil

	if _, err := f.svc.UpdateStatus(context.Background(), f.agent, dispute.ID, disputedomain.DisputeStatusInProgress); err != nil {
		t.Fatalf("to in_progress: %v", err)
	}
	if _, err := f.svc.UpdateStatus(context.Background(), f.agent, dispute.ID, disputedomain.DisputeStatusResolved); err != nil {
		t.Fatalf("to resolved: %v", err)
	}

	recipients := map[snowflake.ID]bool{}
	for _, n := range f.notifier.created {
		if n.Type == notificationdomain.TypeDisputeResolved {
			recipients[n.UserID] = true
		}
	}
	if !recipients[f.buyerID] || !recipients[f.sellerID] {
		t.Fatalf("resolution notifications missing: %+v", f.notifier.created)
	}
}

func TestParticipantsMayOnlyClose(t *testing.T) {
	f := setupDisputeService(t, false)
	dispute := openDispute(t, f, f.buyer)

	if _, err := f.svc.UpdateStatus(context.Background(), f.buyer, dispute.ID, disputedomain.DisputeStatusResolved); !errors.Is(err, disputedomain.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if _, err := f.svc.UpdateStatus(context.Background(), f.buyer, dispute.ID, disputedomain.DisputeStatusClosed); err != nil {
		t.Fatalf("buyer close: %v", err)
	}
}

func TestAssignAgentOnly(t *testing.T) {
	f := setupDisputeService(t, true)
	dispute := openDispute(t, f, f.buyer)

	if _, err := f.svc.Assign(context.Background(), f.buyer, dispute.ID, f.agent.UserID); !errors.Is(err, disputedomain.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	assigned, err := f.svc.Assign(context.Background(), f.agent, dispute.ID, f.agent.UserID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assigned.AssignedAgentID == nil || *assigned.AssignedAgentID != f.agent.UserID {
		t.Fatalf("assignment not stored: %+v", assigned)
	}
}
