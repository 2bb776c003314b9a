package service

import (
	"context"
	"strings"

	"github.com/Pexry/pexry2-sub001/internal/clock"
	notificationdomain "github.com/Pexry/pexry2-sub001/internal/notification/domain"
	"github.com/Pexry/pexry2-sub001/pkg/db/pagination"
	"github.com/Pexry/pexry2-sub001/pkg/option"
	"github.com/Pexry/pexry2-sub001/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var validTypes = map[string]bool{
	notificationdomain.TypeSale:               true,
	notificationdomain.TypeDisputeOpened:      true,
	notificationdomain.TypeDisputeResolved:    true,
	notificationdomain.TypeWithdrawalPaid:     true,
	notificationdomain.TypeWithdrawalRejected: true,
	notificationdomain.TypeGeneral:            true,
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	notifrepo repository.Repository[notificationdomain.Notification]
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

func NewService(p ServiceParam) notificationdomain.Service {
	return &Service{
		log:   p.Log.Named("notification.service"),
		genID: p.GenID,
		clock: p.Clock,

		notifrepo: repository.ProvideStore[notificationdomain.Notification](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req notificationdomain.CreateRequest) (*notificationdomain.Notification, error) {
	if req.UserID == 0 {
		return nil, notificationdomain.ErrInvalidRequest
	}
	if !validTypes[req.Type] {
		return nil, notificationdomain.ErrInvalidRequest
	}
	title := strings.TrimSpace(req.Title)
	message := strings.TrimSpace(req.Message)
	if title == "" || message == "" {
		return nil, notificationdomain.ErrInvalidRequest
	}

	record := &notificationdomain.Notification{
		ID:        s.genID.Generate(),
		UserID:    req.UserID,
		Type:      req.Type,
		Title:     title,
		Message:   message,
		ActionURL: req.ActionURL,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.notifrepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) List(ctx context.Context, req notificationdomain.ListRequest) (notificationdomain.ListResponse, error) {
	filter := &notificationdomain.Notification{UserID: req.UserID}
	if req.Type != "" {
		filter.Type = req.Type
	}

	opts := []option.QueryOption{
		option.ApplyPagination(req.Pagination),
		option.WithSortBy(option.QuerySortBy{Field: "created_at", Desc: true, Allow: map[string]bool{"created_at": true}}),
	}
	if req.Unread {
		opts = append(opts, option.WithWhere("read = ?", false))
	}

	items, err := s.notifrepo.Find(ctx, filter, opts...)
	if err != nil {
		return notificationdomain.ListResponse{}, err
	}

	limit := req.Limit()
	resp := notificationdomain.ListResponse{Notifications: items}
	if len(items) > limit {
		resp.Notifications = items[:limit]
		offset := pagination.DecodeToken(req.PageToken)
		resp.NextPageToken = pagination.EncodeToken(offset + int64(limit))
	}
	return resp, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID snowflake.ID) (int64, error) {
	return s.notifrepo.Count(ctx,
		&notificationdomain.Notification{UserID: userID},
		option.WithWhere("read = ?", false),
	)
}

func (s *Service) MarkRead(ctx context.Context, userID, id snowflake.ID) error {
	affected, err := s.notifrepo.Updates(ctx,
		&notificationdomain.Notification{ID: id, UserID: userID},
		map[string]any{"read": true},
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return notificationdomain.ErrNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID snowflake.ID) (int64, error) {
	return s.notifrepo.Updates(ctx,
		&notificationdomain.Notification{UserID: userID},
		map[string]any{"read": true},
		option.WithWhere("read = ?", false),
	)
}

func (s *Service) Delete(ctx context.Context, userID, id snowflake.ID) error {
	affected, err := s.notifrepo.Delete(ctx, &notificationdomain.Notification{ID: id, UserID: userID})
	if err != nil {
		return err
	}
	if affected == 0 {
		return notificationdomain.ErrNotFound
	}
	return nil
}
