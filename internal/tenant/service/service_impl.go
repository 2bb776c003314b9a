package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/Pexry/pexry2-sub001/internal/cache"
	tenantdomain "github.com/Pexry/pexry2-sub001/internal/tenant/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const slugCacheTTL = 30 * time.Second

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	bySlugCa cache.Cache[string, tenantdomain.Tenant]
}

func NewService(p Params) tenantdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("tenant.service"),
		genID:    p.GenID,
		bySlugCa: cache.NewTTLCache[string, tenantdomain.Tenant](),
	}
}

func (s *Service) Create(ctx context.Context, req tenantdomain.CreateRequest) (*tenantdomain.Tenant, error) {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if slug == "" || !slugPattern.MatchString(slug) {
		return nil, tenantdomain.ErrInvalidSlug
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, tenantdomain.ErrInvalidName
	}
	if req.OwnerUserID == 0 {
		return nil, tenantdomain.ErrInvalidOwner
	}

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&tenantdomain.Tenant{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, tenantdomain.ErrSlugTaken
	}

	now := time.Now().UTC()
	record := &tenantdomain.Tenant{
		ID:          s.genID.Generate(),
		Slug:        slug,
		Name:        name,
		OwnerUserID: req.OwnerUserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// GetBySlug sits on the checkout hot path, so hits come from the TTL
// cache first.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*tenantdomain.Tenant, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, tenantdomain.ErrInvalidSlug
	}

	if cached, ok := s.bySlugCa.Get(slug); ok {
		record := cached
		return &record, nil
	}

	var record tenantdomain.Tenant
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tenantdomain.ErrNotFound
		}
		return nil, err
	}

	s.bySlugCa.Set(slug, record, slugCacheTTL)
	return &record, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*tenantdomain.Tenant, error) {
	if id == 0 {
		return nil, tenantdomain.ErrNotFound
	}
	var record tenantdomain.Tenant
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tenantdomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}
