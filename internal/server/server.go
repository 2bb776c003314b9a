package server

import (
	"context"
	"net/http"

	agentdomain "github.com/Pexry/pexry2-sub001/internal/agent/domain"
	auditdomain "github.com/Pexry/pexry2-sub001/internal/audit/domain"
	"github.com/Pexry/pexry2-sub001/internal/config"
	disputedomain "github.com/Pexry/pexry2-sub001/internal/dispute/domain"
	notificationdomain "github.com/Pexry/pexry2-sub001/internal/notification/domain"
	obslogger "github.com/Pexry/pexry2-sub001/internal/observability/logger"
	obsmetrics "github.com/Pexry/pexry2-sub001/internal/observability/metrics"
	orderdomain "github.com/Pexry/pexry2-sub001/internal/order/domain"
	paymentdomain "github.com/Pexry/pexry2-sub001/internal/payment/domain"
	productdomain "github.com/Pexry/pexry2-sub001/internal/product/domain"
	tenantdomain "github.com/Pexry/pexry2-sub001/internal/tenant/domain"
	walletdomain "github.com/Pexry/pexry2-sub001/internal/wallet/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg   config.Config
	Log   *zap.Logger
	DB    *gorm.DB
	HTTPm *obsmetrics.HTTPMetrics

	TenantSvc       tenantdomain.Service
	ProductSvc      productdomain.Service
	OrderSvc        orderdomain.Service
	PaymentSvc      paymentdomain.Service
	DisputeSvc      disputedomain.Service
	NotificationSvc notificationdomain.Service
	AgentSvc        agentdomain.Service
	WalletSvc       walletdomain.Service
	AuditSvc        auditdomain.Service
}

type Server struct {
	cfg config.Config
	log *zap.Logger
	db  *gorm.DB

	engine         *gin.Engine
	webhookLimiter *rateLimiter

	tenantSvc  tenantdomain.Service
	productSvc productdomain.Service
	orderSvc   orderdomain.Service
	paymentSvc paymentdomain.Service
	disputeSvc disputedomain.Service
	notifSvc   notificationdomain.Service
	agentSvc   agentdomain.Service
	walletSvc  walletdomain.Service
	auditSvc   auditdomain.Service
}

func NewServer(p Params) *Server {
	if p.Cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg: p.Cfg,
		log: p.Log.Named("server"),
		db:  p.DB,

		webhookLimiter: newRateLimiter(p.Cfg.WebhookRateLimit, p.Cfg.WebhookRateWindow),

		tenantSvc:  p.TenantSvc,
		productSvc: p.ProductSvc,
		orderSvc:   p.OrderSvc,
		paymentSvc: p.PaymentSvc,
		disputeSvc: p.DisputeSvc,
		notifSvc:   p.NotificationSvc,
		agentSvc:   p.AgentSvc,
		walletSvc:  p.WalletSvc,
		auditSvc:   p.AuditSvc,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	engine.Use(obsmetrics.GinMiddleware(p.HTTPm))

	s.engine = engine
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.Healthz)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Unauthenticated payment callback; rate limited per source IP.
	s.engine.POST("/webhooks/nowpayments", s.WebhookRateLimit(), s.PaymentWebhook)

	api := s.engine.Group("/api")

	session := api.Group("")
	session.Use(s.SessionRequired())
	{
		session.POST("/checkout", s.Checkout)

		session.GET("/orders", s.ListOrders)
		session.GET("/orders/:id", s.GetOrder)
		session.POST("/orders/:id/deliver", s.DeliverOrder)

		session.POST("/tenants", s.CreateTenant)
		session.GET("/tenants/:slug", s.GetTenant)
		session.POST("/tenants/:slug/products", s.CreateProduct)
		session.GET("/tenants/:slug/products", s.ListProducts)
		session.POST("/products/:id/archive", s.ArchiveProduct)

		session.POST("/disputes", s.OpenDispute)
		session.GET("/disputes", s.ListDisputes)
		session.GET("/disputes/:id", s.GetDispute)
		session.GET("/disputes/:id/messages", s.ListDisputeMessages)
		session.POST("/disputes/:id/messages", s.AddDisputeMessage)
		session.POST("/disputes/:id/status", s.UpdateDisputeStatus)

		session.GET("/notifications", s.ListNotifications)
		session.GET("/notifications/unread-count", s.UnreadNotificationCount)
		session.POST("/notifications/:id/read", s.MarkNotificationRead)
		session.POST("/notifications/read-all", s.MarkAllNotificationsRead)
		session.DELETE("/notifications/:id", s.DeleteNotification)

		session.GET("/wallet/balance", s.GetWalletBalance)
		session.GET("/wallet/withdrawals", s.ListWithdrawals)
		session.POST("/wallet/withdrawals", s.RequestWithdrawal)
	}

	agents := api.Group("/agents")
	agents.Use(s.AgentRequired())
	{
		agents.GET("/disputes", s.AgentListDisputes)
		agents.GET("/disputes/:id", s.AgentGetDispute)
		agents.POST("/disputes/:id/messages", s.AgentAddDisputeMessage)
		agents.POST("/disputes/:id/status", s.AgentUpdateDisputeStatus)
		agents.POST("/disputes/:id/assign", s.AssignDispute)

		supervisors := agents.Group("")
		supervisors.Use(s.SupervisorRequired())
		{
			supervisors.POST("/staff", s.CreateAgent)
			supervisors.GET("/staff", s.ListAgents)
			supervisors.POST("/staff/:id/deactivate", s.DeactivateAgent)

			supervisors.GET("/withdrawals", s.ListPendingWithdrawals)
			supervisors.POST("/withdrawals/:id/pay", s.PayWithdrawal)
			supervisors.POST("/withdrawals/:id/reject", s.RejectWithdrawal)
		}
	}

	api.POST("/test/cleanup", s.TestCleanup)
}

func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine { return s.engine }

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(runServer),
)

func runServer(lc fx.Lifecycle, s *Server, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server exited", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
