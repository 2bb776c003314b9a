package service

import (
	"context"
	"errors"
	"testing"

	agentdomain "github.com/Pexry/pexry2-sub001/internal/agent/domain"
	"github.com/Pexry/pexry2-sub001/internal/clock"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type noopAudit struct{}

func (noopAudit) AuditLog(context.Context, *snowflake.ID, string, *string, string, string, *string, map[string]any) error {
	return nil
}

func setupAgentService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:agent_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE IF NOT EXISTS agents (
			id INTEGER PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			display_name TEXT NOT NULL,
			role TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME,
			updated_at DATETIME
		)`,
	).Error; err != nil {
		t.Fatalf("create agents: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return &Service{
		db:       db,
		log:      zap.NewNop(),
		genID:    node,
		clock:    clock.SystemClock{},
		auditSvc: noopAudit{},
	}
}

func TestCreateAgentDuplicateEmailConflicts(t *testing.T) {
	svc := setupAgentService(t)
	ctx := context.Background()

	req := agentdomain.CreateRequest{
		Email:       "support@pexry.test",
		DisplayName: "Sam Support",
		Role:        agentdomain.RoleAgent,
		Password:    "long-enough-secret",
	}
	if _, err := svc.Create(ctx, req); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Same email, different case.
	req.Email = "Support@Pexry.test"
	if _, err := svc.Create(ctx, req); !errors.Is(err, agentdomain.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestCreateAgentValidation(t *testing.T) {
	svc := setupAgentService(t)
	ctx := context.Background()

	cases := []agentdomain.CreateRequest{
		{Email: "not-an-email", DisplayName: "x", Role: agentdomain.RoleAgent, Password: "long-enough-secret"},
		{Email: "a@b.test", DisplayName: "", Role: agentdomain.RoleAgent, Password: "long-enough-secret"},
		{Email: "a@b.test", DisplayName: "x", Role: "root", Password: "long-enough-secret"},
		{Email: "a@b.test", DisplayName: "x", Role: agentdomain.RoleAgent, Password: "short"},
	}
	for i, req := range cases {
		if _, err := svc.Create(ctx, req); !errors.Is(err, agentdomain.ErrInvalidRequest) {
			t.Fatalf("case %d: err = %v, want ErrInvalidRequest", i, err)
		}
	}
}

func TestAuthenticate(t *testing.T) {
	svc := setupAgentService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, agentdomain.CreateRequest{
		Email:       "super@pexry.test",
		DisplayName: "Sue Supervisor",
		Role:        agentdomain.RoleSupervisor,
		Password:    "long-enough-secret",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	agent, err := svc.Authenticate(ctx, "super@pexry.test", "long-enough-secret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if agent.ID != created.ID || agent.Role != agentdomain.RoleSupervisor {
		t.Fatalf("unexpected agent %+v", agent)
	}

	if _, err := svc.Authenticate(ctx, "super@pexry.test", "wrong-password"); !errors.Is(err, agentdomain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}

	// Deactivated agents cannot authenticate.
	if _, err := svc.Deactivate(ctx, created.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "super@pexry.test", "long-enough-secret"); !errors.Is(err, agentdomain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials after deactivation", err)
	}
}

func TestListFiltersInactive(t *testing.T) {
	svc := setupAgentService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, agentdomain.CreateRequest{
		Email: "a@pexry.test", DisplayName: "A", Role: agentdomain.RoleAgent, Password: "long-enough-secret",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, agentdomain.CreateRequest{
		Email: "b@pexry.test", DisplayName: "B", Role: agentdomain.RoleAgent, Password: "long-enough-secret",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Deactivate(ctx, a.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	active, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("got %d active agents, want 1", len(active))
	}

	all, err := svc.List(ctx, true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d agents, want 2", len(all))
	}
}
