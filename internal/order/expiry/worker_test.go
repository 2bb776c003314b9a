package expiry

import (
	"context"
	"testing"
	"time"

	"github.com/Pexry/pexry2-sub001/internal/clock"
	"github.com/Pexry/pexry2-sub001/internal/events"
	obsmetrics "github.com/Pexry/pexry2-sub001/internal/observability/metrics"
	orderdomain "github.com/Pexry/pexry2-sub001/internal/order/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupExpiryWorker(t *testing.T) (*Worker, *gorm.DB, *snowflake.Node) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:expiry_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
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

	worker := &Worker{
		db:      db,
		log:     zap.NewNop(),
		clock:   clock.SystemClock{},
		outbox:  events.NewOutbox(db, node),
		metrics: obsmetrics.NewMarketplace(prometheus.NewRegistry(), obsmetrics.Config{ServiceName: "test"}),
		cfg:     DefaultConfig(),
	}
	return worker, db, node
}

func insertOrder(t *testing.T, db *gorm.DB, node *snowflake.Node, status orderdomain.OrderStatus, expiresAt *time.Time) snowflake.ID {
	t.Helper()
	id := node.Generate()
	now := time.Now().UTC()
	err := db.Exec(
		`INSERT INTO orders (id, user_id, tenant_id, status, amount_cents, transaction_id, expires_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, node.Generate(), node.Generate(), status, 1000, id.String(), expiresAt, now, now,
	).Error
	if err != nil {
		t.Fatalf("insert order: %v", err)
	}
	return id
}

func orderStatus(t *testing.T, db *gorm.DB, id snowflake.ID) string {
	t.Helper()
	var status string
	if err := db.Raw(`SELECT status FROM orders WHERE id = ?`, id).Scan(&status).Error; err != nil {
		t.Fatalf("load status: %v", err)
	}
	return status
}

func TestSweepExpiresOverduePendingOrders(t *testing.T) {
	worker, db, node := setupExpiryWorker(t)

	past := time.Now().UTC().Add(-time.Minute)
	future := time.Now().UTC().Add(time.Hour)

	overdue := insertOrder(t, db, node, orderdomain.OrderStatusPending, &past)
	fresh := insertOrder(t, db, node, orderdomain.OrderStatusPending, &future)
	paid := insertOrder(t, db, node, orderdomain.OrderStatusPaid, &past)

	expired, err := worker.sweep(context.Background(), 100)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expired = %d, want 1", expired)
	}

	if got := orderStatus(t, db, overdue); got != string(orderdomain.OrderStatusExpired) {
		t.Fatalf("overdue order status = %s, want expired", got)
	}
	if got := orderStatus(t, db, fresh); got != string(orderdomain.OrderStatusPending) {
		t.Fatalf("fresh order status = %s, want pending", got)
	}
	if got := orderStatus(t, db, paid); got != string(orderdomain.OrderStatusPaid) {
		t.Fatalf("paid order status = %s, want paid", got)
	}

	var eventCount int64
	if err := db.Raw(`SELECT COUNT(*) FROM marketplace_events WHERE event_type = ?`, events.EventOrderExpired).Scan(&eventCount).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if eventCount != 1 {
		t.Fatalf("event count = %d, want 1", eventCount)
	}
}

func TestSweepRespectsBatchSize(t *testing.T) {
	worker, db, node := setupExpiryWorker(t)

	past := time.Now().UTC().Add(-time.Minute)
	for i := 0; i < 5; i++ {
		insertOrder(t, db, node, orderdomain.OrderStatusPending, &past)
	}

	expired, err := worker.sweep(context.Background(), 2)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if expired != 2 {
		t.Fatalf("expired = %d, want 2 (batch limit)", expired)
	}
}

func TestSweepIgnoresOrdersWithoutExpiry(t *testing.T) {
	worker, db, node := setupExpiryWorker(t)

	id := insertOrder(t, db, node, orderdomain.OrderStatusPending, nil)

	expired, err := worker.sweep(context.Background(), 100)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if expired != 0 {
		t.Fatalf("expired = %d, want 0", expired)
	}
	if got := orderStatus(t, db, id); got != string(orderdomain.OrderStatusPending) {
		t.Fatalf("status = %s, want pending", got)
	}
}
