package service

import (
	"context"
	"errors"
	"strings"
	"time"

	productdomain "github.com/Pexry/pexry2-sub001/internal/product/domain"
	tenantdomain "github.com/Pexry/pexry2-sub001/internal/tenant/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	TenantSvc tenantdomain.Service
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	tenantSvc tenantdomain.Service
}

func NewService(p Params) productdomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("product.service"),
		genID:     p.GenID,
		tenantSvc: p.TenantSvc,
	}
}

func (s *Service) Create(ctx context.Context, req productdomain.CreateRequest) (*productdomain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, productdomain.ErrInvalidName
	}
	if req.PriceCents < 0 {
		return nil, productdomain.ErrInvalidPrice
	}

	if err := s.requireOwner(ctx, req.TenantID, req.ActorUserID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := &productdomain.Product{
		ID:          s.genID.Generate(),
		TenantID:    req.TenantID,
		Name:        name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) List(ctx context.Context, req productdomain.ListRequest) ([]productdomain.Product, error) {
	query := s.db.WithContext(ctx).Where("tenant_id = ?", req.TenantID)
	if !req.IncludeArchived {
		query = query.Where("archived = ?", false)
	}

	var records []productdomain.Product
	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*productdomain.Product, error) {
	var record productdomain.Product
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, productdomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (s *Service) Archive(ctx context.Context, id snowflake.ID, actorUserID snowflake.ID) (*productdomain.Product, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, record.TenantID, actorUserID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).
		Model(&productdomain.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{"archived": true, "updated_at": now}).Error; err != nil {
		return nil, err
	}
	record.Archived = true
	record.UpdatedAt = now
	return record, nil
}

func (s *Service) FindPurchasable(ctx context.Context, tenantID snowflake.ID, ids []snowflake.ID) ([]productdomain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var records []productdomain.Product
	err := s.db.WithContext(ctx).
		Where("id IN ? AND tenant_id = ? AND archived = ?", ids, tenantID, false).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Service) requireOwner(ctx context.Context, tenantID, actorUserID snowflake.ID) error {
	tenant, err := s.tenantSvc.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenantdomain.ErrNotFound) {
			return productdomain.ErrNotFound
		}
		return err
	}
	if tenant.OwnerUserID != actorUserID {
		return productdomain.ErrForbidden
	}
	return nil
}
