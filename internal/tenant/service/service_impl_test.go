package service

import (
	"context"
	"errors"
	"testing"

	tenantdomain "github.com/Pexry/pexry2-sub001/internal/tenant/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTenantService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:tenant_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(`CREATE TABLE IF NOT EXISTS tenants (
		id INTEGER PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		owner_user_id BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`).Error; err != nil {
		t.Fatalf("create tenants table: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	svc := NewService(Params{DB: db, Log: zap.NewNop(), GenID: node})
	return svc.(*Service), db
}

func TestCreateTenantValidation(t *testing.T) {
	svc, _ := setupTenantService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  tenantdomain.CreateRequest
		want error
	}{
		{name: "empty slug", req: tenantdomain.CreateRequest{Name: "Shop", OwnerUserID: 1}, want: tenantdomain.ErrInvalidSlug},
		{name: "bad slug characters", req: tenantdomain.CreateRequest{Slug: "My Shop!", Name: "Shop", OwnerUserID: 1}, want: tenantdomain.ErrInvalidSlug},
		{name: "empty name", req: tenantdomain.CreateRequest{Slug: "shop", OwnerUserID: 1}, want: tenantdomain.ErrInvalidName},
		{name: "missing owner", req: tenantdomain.CreateRequest{Slug: "shop", Name: "Shop"}, want: tenantdomain.ErrInvalidOwner},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateTenantSlugConflict(t *testing.T) {
	svc, _ := setupTenantService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, tenantdomain.CreateRequest{Slug: "games", Name: "Games", OwnerUserID: 1}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// Slugs normalize to lowercase before the uniqueness check.
	_, err := svc.Create(ctx, tenantdomain.CreateRequest{Slug: "GAMES", Name: "Other", OwnerUserID: 2})
	if !errors.Is(err, tenantdomain.ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestGetBySlugCachesResult(t *testing.T) {
	svc, db := setupTenantService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, tenantdomain.CreateRequest{Slug: "books", Name: "Books", OwnerUserID: 7})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := svc.GetBySlug(ctx, "books")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if first.ID != created.ID {
		t.Fatalf("expected tenant %d, got %d", created.ID, first.ID)
	}

	// A cached read survives the row disappearing underneath it.
	if err := db.Exec(`DELETE FROM tenants WHERE id = ?`, created.ID).Error; err != nil {
		t.Fatalf("delete tenant: %v", err)
	}
	second, err := svc.GetBySlug(ctx, "Books")
	if err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if second.ID != created.ID {
		t.Fatalf("expected cached tenant %d, got %d", created.ID, second.ID)
	}
}

func TestGetBySlugNotFound(t *testing.T) {
	svc, _ := setupTenantService(t)

	_, err := svc.GetBySlug(context.Background(), "missing")
	if !errors.Is(err, tenantdomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByID(t *testing.T) {
	svc, _ := setupTenantService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, tenantdomain.CreateRequest{Slug: "music", Name: "Music", OwnerUserID: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Slug != "music" {
		t.Fatalf("expected slug music, got %q", got.Slug)
	}

	if _, err := svc.GetByID(ctx, snowflake.ID(999)); !errors.Is(err, tenantdomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
