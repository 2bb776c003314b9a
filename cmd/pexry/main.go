// @title           Pexry API
// @version         1.0
// @description     Pexry digital goods marketplace API
// @host      localhost:8080
// @BasePath  /api
// @Schemes 	http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"github.com/Pexry/pexry2-sub001/internal/agent"
	"github.com/Pexry/pexry2-sub001/internal/audit"
	"github.com/Pexry/pexry2-sub001/internal/clock"
	"github.com/Pexry/pexry2-sub001/internal/config"
	"github.com/Pexry/pexry2-sub001/internal/dispute"
	"github.com/Pexry/pexry2-sub001/internal/events"
	"github.com/Pexry/pexry2-sub001/internal/migration"
	"github.com/Pexry/pexry2-sub001/internal/notification"
	"github.com/Pexry/pexry2-sub001/internal/observability"
	"github.com/Pexry/pexry2-sub001/internal/order"
	"github.com/Pexry/pexry2-sub001/internal/payment"
	"github.com/Pexry/pexry2-sub001/internal/product"
	"github.com/Pexry/pexry2-sub001/internal/seed"
	"github.com/Pexry/pexry2-sub001/internal/server"
	"github.com/Pexry/pexry2-sub001/internal/tenant"
	"github.com/Pexry/pexry2-sub001/internal/wallet"
	"github.com/Pexry/pexry2-sub001/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		clock.Module,
		events.Module,

		fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB); err != nil {
				return err
			}
			if cfg.Bootstrap.EnsureDefaultTenantAndAdmin {
				return seed.EnsureDefaults(conn)
			}
			return nil
		}),

		audit.Module,
		tenant.Module,
		product.Module,
		order.Module,
		payment.Module,
		dispute.Module,
		notification.Module,
		agent.Module,
		wallet.Module,

		server.Module,
	)
	app.Run()
}
