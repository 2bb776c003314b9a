package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Pexry/pexry2-sub001/internal/clock"
	notificationdomain "github.com/Pexry/pexry2-sub001/internal/notification/domain"
	"github.com/Pexry/pexry2-sub001/pkg/db/pagination"
	"github.com/Pexry/pexry2-sub001/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupNotificationService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:notif_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE IF NOT EXISTS notifications (
			id INTEGER PRIMARY KEY,
			user_id BIGINT NOT NULL,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			read BOOLEAN NOT NULL DEFAULT FALSE,
			action_url TEXT,
			created_at DATETIME
		)`,
	).Error; err != nil {
		t.Fatalf("create notifications: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return &Service{
		log:       zap.NewNop(),
		genID:     node,
		clock:     clock.SystemClock{},
		notifrepo: repository.ProvideStore[notificationdomain.Notification](db),
	}
}

func createNotification(t *testing.T, svc *Service, userID snowflake.ID, typ string) *notificationdomain.Notification {
	t.Helper()
	record, err := svc.Create(context.Background(), notificationdomain.CreateRequest{
		UserID:  userID,
		Type:    typ,
		Title:   "title",
		Message: "message",
	})
	if err != nil {
		t.Fatalf("create notification: %v", err)
	}
	return record
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc := setupNotificationService(t)

	_, err := svc.Create(context.Background(), notificationdomain.CreateRequest{
		UserID:  1,
		Type:    "mystery",
		Title:   "t",
		Message: "m",
	})
	if !errors.Is(err, notificationdomain.ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestListScopedToOwner(t *testing.T) {
	svc := setupNotificationService(t)
	createNotification(t, svc, 10, notificationdomain.TypeSale)
	createNotification(t, svc, 10, notificationdomain.TypeGeneral)
	createNotification(t, svc, 99, notificationdomain.TypeSale)

	resp, err := svc.List(context.Background(), notificationdomain.ListRequest{UserID: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Notifications) != 2 {
		t.Fatalf("got %d notifications, want 2", len(resp.Notifications))
	}
	for _, n := range resp.Notifications {
		if n.UserID != 10 {
			t.Fatalf("leaked notification for user %d", n.UserID)
		}
	}
}

func TestListUnreadFilterAndCount(t *testing.T) {
	svc := setupNotificationService(t)
	first := createNotification(t, svc, 10, notificationdomain.TypeSale)
	createNotification(t, svc, 10, notificationdomain.TypeSale)

	if err := svc.MarkRead(context.Background(), 10, first.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	resp, err := svc.List(context.Background(), notificationdomain.ListRequest{UserID: 10, Unread: true})
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(resp.Notifications) != 1 {
		t.Fatalf("got %d unread, want 1", len(resp.Notifications))
	}

	count, err := svc.UnreadCount(context.Background(), 10)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 1 {
		t.Fatalf("unread count = %d, want 1", count)
	}
}

func TestListPagination(t *testing.T) {
	svc := setupNotificationService(t)
	for i := 0; i < 5; i++ {
		createNotification(t, svc, 10, notificationdomain.TypeGeneral)
	}

	page, err := svc.List(context.Background(), notificationdomain.ListRequest{
		UserID:     10,
		Pagination: pagination.Pagination{PageSize: 2},
	})
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(page.Notifications) != 2 {
		t.Fatalf("got %d items, want 2", len(page.Notifications))
	}
	if page.NextPageToken == "" {
		t.Fatalf("expected next page token")
	}

	second, err := svc.List(context.Background(), notificationdomain.ListRequest{
		UserID:     10,
		Pagination: pagination.Pagination{PageSize: 2, PageToken: page.NextPageToken},
	})
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(second.Notifications) != 2 {
		t.Fatalf("got %d items, want 2", len(second.Notifications))
	}
	if second.Notifications[0].ID == page.Notifications[0].ID {
		t.Fatalf("second page repeated first page")
	}
}

func TestMarkAllRead(t *testing.T) {
	svc := setupNotificationService(t)
	createNotification(t, svc, 10, notificationdomain.TypeSale)
	createNotification(t, svc, 10, notificationdomain.TypeSale)
	createNotification(t, svc, 11, notificationdomain.TypeSale)

	affected, err := svc.MarkAllRead(context.Background(), 10)
	if err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	if affected != 2 {
		t.Fatalf("affected = %d, want 2", affected)
	}

	count, err := svc.UnreadCount(context.Background(), 11)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 1 {
		t.Fatalf("other user's unread count = %d, want 1", count)
	}
}

func TestDeleteRequiresOwner(t *testing.T) {
	svc := setupNotificationService(t)
	record := createNotification(t, svc, 10, notificationdomain.TypeSale)

	if err := svc.Delete(context.Background(), 11, record.ID); !errors.Is(err, notificationdomain.ErrNotFound) {
		t.Fatalf("cross-user delete err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(context.Background(), 10, record.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}
