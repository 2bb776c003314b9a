package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	agentdomain "github.com/Pexry/pexry2-sub001/internal/agent/domain"
	auditdomain "github.com/Pexry/pexry2-sub001/internal/audit/domain"
	"github.com/Pexry/pexry2-sub001/internal/auth/password"
	"github.com/Pexry/pexry2-sub001/internal/clock"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	AuditSvc auditdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	auditSvc auditdomain.Service
}

func NewService(p Params) agentdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("agent.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) Create(ctx context.Context, req agentdomain.CreateRequest) (*agentdomain.Agent, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, agentdomain.ErrInvalidRequest
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, agentdomain.ErrInvalidRequest
	}
	if !req.Role.Valid() {
		return nil, agentdomain.ErrInvalidRequest
	}
	if len(req.Password) < minPasswordLength {
		return nil, agentdomain.ErrInvalidRequest
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	// Pre-check keeps the common duplicate a clean conflict; the
	// unique index still backstops concurrent creates.
	var existing int64
	if err := s.db.WithContext(ctx).Model(&agentdomain.Agent{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, agentdomain.ErrEmailTaken
	}

	now := s.clock.Now().UTC()
	agent := &agentdomain.Agent{
		ID:           s.genID.Generate(),
		Email:        email,
		DisplayName:  displayName,
		Role:         req.Role,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.WithContext(ctx).Create(agent).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, agentdomain.ErrEmailTaken
		}
		return nil, err
	}

	s.audit(ctx, agent, "agent.created")
	return agent, nil
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]agentdomain.Agent, error) {
	query := s.db.WithContext(ctx).Model(&agentdomain.Agent{})
	if !includeInactive {
		query = query.Where("active = ?", true)
	}

	var agents []agentdomain.Agent
	err := query.Order("created_at ASC").Find(&agents).Error
	return agents, err
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*agentdomain.Agent, error) {
	var agent agentdomain.Agent
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&agent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, agentdomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

func (s *Service) Authenticate(ctx context.Context, email, plain string) (*agentdomain.Agent, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var agent agentdomain.Agent
	err := s.db.WithContext(ctx).Where("email = ? AND active = ?", email, true).First(&agent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, agentdomain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !password.Verify(plain, agent.PasswordHash) {
		return nil, agentdomain.ErrInvalidCredentials
	}
	return &agent, nil
}

func (s *Service) Deactivate(ctx context.Context, id snowflake.ID) (*agentdomain.Agent, error) {
	agent, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	err = s.db.WithContext(ctx).Model(&agentdomain.Agent{}).
		Where("id = ?", id).
		Updates(map[string]any{"active": false, "updated_at": now}).
		Error
	if err != nil {
		return nil, err
	}

	agent.Active = false
	agent.UpdatedAt = now
	s.audit(ctx, agent, "agent.deactivated")
	return agent, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

func (s *Service) audit(ctx context.Context, agent *agentdomain.Agent, action string) {
	targetID := agent.ID.String()
	if err := s.auditSvc.AuditLog(ctx, nil, string(auditdomain.ActorTypeAgent), nil, action, "agent", &targetID, map[string]any{
		"email": agent.Email,
		"role":  string(agent.Role),
	}); err != nil {
		s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}
