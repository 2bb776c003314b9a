package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	agentdomain "github.com/Pexry/pexry2-sub001/internal/agent/domain"
	authdomain "github.com/Pexry/pexry2-sub001/internal/auth/domain"
	"github.com/Pexry/pexry2-sub001/internal/auth/password"
	tenantdomain "github.com/Pexry/pexry2-sub001/internal/tenant/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

const (
	defaultTenantName    = "Main Store"
	defaultTenantSlug    = "main"
	defaultAdminEmail    = "admin@pexry.local"
	defaultAdminPassword = "admin"
	defaultAdminDisplay  = "Pexry Admin"

	defaultSupervisorEmail = "support@pexry.local"
	defaultSupervisorName  = "Pexry Support"
)

// EnsureDefaults seeds the default tenant, its admin owner, and a
// supervisor support account for local development bootstrap.
func EnsureDefaults(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admin, err := ensureAdminTx(ctx, tx, node)
		if err != nil {
			return err
		}
		if _, err := ensureDefaultTenantTx(ctx, tx, node, admin.ID); err != nil {
			return err
		}
		return ensureSupervisorTx(ctx, tx, node)
	})
}

func ensureAdminTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (authdomain.User, error) {
	var user authdomain.User
	err := tx.WithContext(ctx).
		Where("email = ?", strings.ToLower(defaultAdminEmail)).
		First(&user).Error
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return user, err
	}

	hashed, err := password.Hash(defaultAdminPassword)
	if err != nil {
		return user, err
	}
	now := time.Now().UTC()
	user = authdomain.User{
		ID:           node.Generate(),
		Email:        strings.ToLower(defaultAdminEmail),
		DisplayName:  defaultAdminDisplay,
		PasswordHash: &hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.WithContext(ctx).Create(&user).Error; err != nil {
		return user, err
	}
	return user, nil
}

func ensureDefaultTenantTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, ownerID snowflake.ID) (tenantdomain.Tenant, error) {
	var tenant tenantdomain.Tenant
	err := tx.WithContext(ctx).Where("slug = ?", defaultTenantSlug).First(&tenant).Error
	if err == nil {
		return tenant, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return tenant, err
	}

	now := time.Now().UTC()
	tenant = tenantdomain.Tenant{
		ID:          node.Generate(),
		Slug:        defaultTenantSlug,
		Name:        defaultTenantName,
		OwnerUserID: ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.WithContext(ctx).Create(&tenant).Error; err != nil {
		return tenant, err
	}
	return tenant, nil
}

func ensureSupervisorTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var agent agentdomain.Agent
	err := tx.WithContext(ctx).
		Where("email = ?", strings.ToLower(defaultSupervisorEmail)).
		First(&agent).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := password.Hash(defaultAdminPassword)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	agent = agentdomain.Agent{
		ID:           node.Generate(),
		Email:        strings.ToLower(defaultSupervisorEmail),
		DisplayName:  defaultSupervisorName,
		Role:         agentdomain.RoleSupervisor,
		PasswordHash: hashed,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return tx.WithContext(ctx).Create(&agent).Error
}
