package service

import (
	"context"
	"errors"
	"strings"

	auditdomain "github.com/Pexry/pexry2-sub001/internal/audit/domain"
	"github.com/Pexry/pexry2-sub001/internal/clock"
	"github.com/Pexry/pexry2-sub001/internal/events"
	notificationdomain "github.com/Pexry/pexry2-sub001/internal/notification/domain"
	walletdomain "github.com/Pexry/pexry2-sub001/internal/wallet/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	NotifSvc notificationdomain.Service
	Outbox   *events.Outbox
	AuditSvc auditdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	notifSvc notificationdomain.Service
	outbox   *events.Outbox
	auditSvc auditdomain.Service
}

func NewService(p Params) walletdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("wallet.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		notifSvc: p.NotifSvc,
		outbox:   p.Outbox,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) CreditForOrder(ctx context.Context, userID, orderID snowflake.ID, amountCents int64) error {
	if userID == 0 || orderID == 0 || amountCents <= 0 {
		return walletdomain.ErrInvalidRequest
	}

	entry := &walletdomain.WalletEntry{
		ID:          s.genID.Generate(),
		UserID:      userID,
		Direction:   walletdomain.EntryDirectionCredit,
		AmountCents: amountCents,
		SourceType:  walletdomain.SourceTypeOrder,
		SourceID:    orderID.String(),
		CreatedAt:   s.clock.Now().UTC(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "direction"},
				{Name: "source_type"},
				{Name: "source_id"},
			},
			DoNothing: true,
		}).
		Create(entry).
		Error
}

func (s *Service) GetBalance(ctx context.Context, userID snowflake.ID) (walletdomain.Balance, error) {
	return s.balance(ctx, s.db, userID)
}

func (s *Service) balance(ctx context.Context, db *gorm.DB, userID snowflake.ID) (walletdomain.Balance, error) {
	var posted int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(CASE direction WHEN 'credit' THEN amount_cents ELSE -amount_cents END), 0)
		 FROM wallet_entries WHERE user_id = ?`,
		userID,
	).Scan(&posted).Error
	if err != nil {
		return walletdomain.Balance{}, err
	}

	var pending int64
	err = db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount_cents), 0) FROM withdrawals WHERE user_id = ? AND status = ?`,
		userID,
		walletdomain.WithdrawalStatusPending,
	).Scan(&pending).Error
	if err != nil {
		return walletdomain.Balance{}, err
	}

	return walletdomain.Balance{
		BalanceCents:   posted,
		PendingCents:   pending,
		AvailableCents: posted - pending,
	}, nil
}

func (s *Service) RequestWithdrawal(ctx context.Context, req walletdomain.WithdrawalRequest) (*walletdomain.Withdrawal, error) {
	if req.UserID == 0 || req.AmountCents <= 0 {
		return nil, walletdomain.ErrInvalidRequest
	}
	address := strings.TrimSpace(req.WalletAddress)
	if address == "" {
		return nil, walletdomain.ErrInvalidRequest
	}

	now := s.clock.Now().UTC()
	withdrawal := &walletdomain.Withdrawal{
		ID:            s.genID.Generate(),
		UserID:        req.UserID,
		AmountCents:   req.AmountCents,
		WalletAddress: address,
		Status:        walletdomain.WithdrawalStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		balance, err := s.balance(ctx, tx, req.UserID)
		if err != nil {
			return err
		}
		if req.AmountCents > balance.AvailableCents {
			return walletdomain.ErrInsufficientBalance
		}
		if err := tx.Create(withdrawal).Error; err != nil {
			return err
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventWithdrawalRequested,
			Payload: map[string]any{
				"withdrawal_id": withdrawal.ID.String(),
				"user_id":       req.UserID.String(),
				"amount_cents":  req.AmountCents,
			},
			DedupeKey: "withdrawal.requested:" + withdrawal.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, "wallet.withdrawal_requested", withdrawal)
	return withdrawal, nil
}

func (s *Service) ListWithdrawals(ctx context.Context, userID snowflake.ID) ([]walletdomain.Withdrawal, error) {
	var withdrawals []walletdomain.Withdrawal
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&withdrawals).
		Error
	return withdrawals, err
}

func (s *Service) ListPendingWithdrawals(ctx context.Context) ([]walletdomain.Withdrawal, error) {
	var withdrawals []walletdomain.Withdrawal
	err := s.db.WithContext(ctx).
		Where("status = ?", walletdomain.WithdrawalStatusPending).
		Order("created_at ASC").
		Find(&withdrawals).
		Error
	return withdrawals, err
}

func (s *Service) PayWithdrawal(ctx context.Context, id snowflake.ID) (*walletdomain.Withdrawal, error) {
	withdrawal, err := s.resolve(ctx, id, walletdomain.WithdrawalStatusPaid, func(tx *gorm.DB, w *walletdomain.Withdrawal) error {
		entry := &walletdomain.WalletEntry{
			ID:          s.genID.Generate(),
			UserID:      w.UserID,
			Direction:   walletdomain.EntryDirectionDebit,
			AmountCents: w.AmountCents,
			SourceType:  walletdomain.SourceTypeWithdrawal,
			SourceID:    w.ID.String(),
			CreatedAt:   s.clock.Now().UTC(),
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, withdrawal, notificationdomain.TypeWithdrawalPaid,
		"Withdrawal paid", "Your withdrawal has been paid out.")
	s.audit(ctx, "wallet.withdrawal_paid", withdrawal)
	return withdrawal, nil
}

func (s *Service) RejectWithdrawal(ctx context.Context, id snowflake.ID) (*walletdomain.Withdrawal, error) {
	withdrawal, err := s.resolve(ctx, id, walletdomain.WithdrawalStatusRejected, nil)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, withdrawal, notificationdomain.TypeWithdrawalRejected,
		"Withdrawal rejected", "Your withdrawal request was rejected.")
	s.audit(ctx, "wallet.withdrawal_rejected", withdrawal)
	return withdrawal, nil
}

// resolve moves a pending withdrawal to a terminal status, running
// extra inside the same transaction when supplied.
func (s *Service) resolve(ctx context.Context, id snowflake.ID, status walletdomain.WithdrawalStatus, extra func(*gorm.DB, *walletdomain.Withdrawal) error) (*walletdomain.Withdrawal, error) {
	var withdrawal walletdomain.Withdrawal

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&withdrawal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return walletdomain.ErrNotFound
			}
			return err
		}
		if withdrawal.Status != walletdomain.WithdrawalStatusPending {
			return walletdomain.ErrNotPending
		}

		now := s.clock.Now().UTC()
		withdrawal.Status = status
		withdrawal.ResolvedAt = &now
		withdrawal.UpdatedAt = now
		if err := tx.Model(&walletdomain.Withdrawal{}).
			Where("id = ? AND status = ?", id, walletdomain.WithdrawalStatusPending).
			Updates(map[string]any{
				"status":      status,
				"resolved_at": now,
				"updated_at":  now,
			}).
			Error; err != nil {
			return err
		}

		if extra != nil {
			if err := extra(tx, &withdrawal); err != nil {
				return err
			}
		}

		eventType := events.EventWithdrawalPaid
		if status == walletdomain.WithdrawalStatusRejected {
			eventType = events.EventWithdrawalRejected
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			Type: eventType,
			Payload: map[string]any{
				"withdrawal_id": withdrawal.ID.String(),
				"user_id":       withdrawal.UserID.String(),
				"amount_cents":  withdrawal.AmountCents,
			},
			DedupeKey: eventType + ":" + withdrawal.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

func (s *Service) notify(ctx context.Context, w *walletdomain.Withdrawal, typ, title, message string) {
	if _, err := s.notifSvc.Create(ctx, notificationdomain.CreateRequest{
		UserID:  w.UserID,
		Type:    typ,
		Title:   title,
		Message: message,
	}); err != nil {
		s.log.Warn("withdrawal notification failed",
			zap.Int64("withdrawal_id", int64(w.ID)),
			zap.String("type", typ),
			zap.Error(err),
		)
	}
}

func (s *Service) audit(ctx context.Context, action string, w *walletdomain.Withdrawal) {
	targetID := w.ID.String()
	if err := s.auditSvc.AuditLog(ctx, nil, string(auditdomain.ActorTypeUser), nil, action, "withdrawal", &targetID, map[string]any{
		"user_id":      w.UserID.String(),
		"amount_cents": w.AmountCents,
	}); err != nil {
		s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}
