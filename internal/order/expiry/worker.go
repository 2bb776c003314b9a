package expiry

import (
	"context"
	"errors"
	"time"

	"github.com/Pexry/pexry2-sub001/internal/clock"
	"github.com/Pexry/pexry2-sub001/internal/events"
	obsmetrics "github.com/Pexry/pexry2-sub001/internal/observability/metrics"
	orderdomain "github.com/Pexry/pexry2-sub001/internal/order/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	Outbox  *events.Outbox
	Metrics *obsmetrics.MarketplaceMetrics
	Config  Config `optional:"true"`
}

// Worker expires pending orders whose payment never confirmed. A late
// finished webhook still settles an expired order: the sweep is
// reconciliation, not a final verdict.
type Worker struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	outbox  *events.Outbox
	metrics *obsmetrics.MarketplaceMetrics
	cfg     Config
}

func NewWorker(p Params) *Worker {
	return &Worker{
		db:      p.DB,
		log:     p.Log.Named("order.expiry"),
		clock:   p.Clock,
		outbox:  p.Outbox,
		metrics: p.Metrics,
		cfg:     p.Config.withDefaults(),
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := w.RunOnce(ctx); err != nil {
			w.log.Warn("expiry sweep failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Worker) RunOnce(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	expired, err := w.sweep(runCtx, w.cfg.BatchSize)
	if err != nil {
		return err
	}
	if expired > 0 {
		w.log.Info("expired pending orders", zap.Int("count", expired))
		w.metrics.AddOrdersExpired(expired)
	}

	return w.reportBacklog(runCtx)
}

type expiredOrder struct {
	ID            snowflake.ID
	TenantID      snowflake.ID
	TransactionID string
}

func (w *Worker) sweep(ctx context.Context, limit int) (int, error) {
	if w.db == nil {
		return 0, errors.New("expiry_worker_unavailable")
	}

	now := w.clock.Now().UTC()
	expired := 0
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []expiredOrder
		if err := tx.Raw(
			`SELECT id, tenant_id, transaction_id
			 FROM orders
			 WHERE status = ? AND expires_at IS NOT NULL AND expires_at < ?
			 ORDER BY expires_at ASC
			 LIMIT ?`,
			orderdomain.OrderStatusPending,
			now,
			limit,
		).Scan(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		ids := make([]snowflake.ID, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ID)
		}
		// Guard on status again: a webhook may settle an order between
		// the select and the update.
		res := tx.Model(&orderdomain.Order{}).
			Where("id IN ? AND status = ?", ids, orderdomain.OrderStatusPending).
			Updates(map[string]any{
				"status":     orderdomain.OrderStatusExpired,
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		expired = int(res.RowsAffected)

		for _, row := range rows {
			if err := w.outbox.PublishTx(ctx, tx, events.Event{
				TenantID: row.TenantID,
				Type:     events.EventOrderExpired,
				Payload: map[string]any{
					"order_id":       row.ID.String(),
					"transaction_id": row.TransactionID,
				},
				DedupeKey: events.EventOrderExpired + ":" + row.TransactionID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return expired, err
}

// reportBacklog refreshes the pending-order gauges.
func (w *Worker) reportBacklog(ctx context.Context) error {
	var backlog struct {
		Count  int
		Oldest *time.Time
	}
	err := w.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS count, MIN(created_at) AS oldest
		 FROM orders WHERE status = ?`,
		orderdomain.OrderStatusPending,
	).Scan(&backlog).Error
	if err != nil {
		return err
	}

	w.metrics.SetPendingBacklog(backlog.Count)
	if backlog.Oldest != nil {
		w.metrics.SetPendingOldest(w.clock.Now().Sub(*backlog.Oldest))
	} else {
		w.metrics.SetPendingOldest(0)
	}
	return nil
}
