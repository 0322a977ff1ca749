package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/geliahq/gelia/internal/audit"
	auditdomain "github.com/geliahq/gelia/internal/audit/domain"
	"github.com/geliahq/gelia/internal/auth/token"
	"github.com/geliahq/gelia/internal/config"
	"github.com/geliahq/gelia/internal/dashboard"
	"github.com/geliahq/gelia/internal/erp/finance"
	"github.com/geliahq/gelia/internal/erp/hr"
	"github.com/geliahq/gelia/internal/erp/navigation"
	"github.com/geliahq/gelia/internal/erp/sales"
	"github.com/geliahq/gelia/internal/erp/supplychain"
	"github.com/geliahq/gelia/internal/identity"
	identitydomain "github.com/geliahq/gelia/internal/identity/domain"
	"github.com/geliahq/gelia/internal/insight"
	"github.com/geliahq/gelia/internal/observability"
	obslogger "github.com/geliahq/gelia/internal/observability/logger"
	obsmetrics "github.com/geliahq/gelia/internal/observability/metrics"
	obstracing "github.com/geliahq/gelia/internal/observability/tracing"
	providersai "github.com/geliahq/gelia/internal/providers/ai"
	"github.com/geliahq/gelia/internal/ratelimit"
	"github.com/geliahq/gelia/internal/reference"
	"github.com/geliahq/gelia/internal/tenant"
	tenantdomain "github.com/geliahq/gelia/internal/tenant/domain"
	"github.com/geliahq/gelia/pkg/db"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	observability.Module,
	db.Module,
	token.Module,
	tenant.Module,
	identity.Module,
	audit.Module,
	ratelimit.Module,
	providersai.Module,
	finance.Module,
	hr.Module,
	sales.Module,
	supplychain.Module,
	navigation.Module,
	reference.Module,
	insight.Module,
	dashboard.Module,
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

// Server binds HTTP handlers to the domain services.
type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	db             *gorm.DB
	log            *zap.Logger
	genID          *snowflake.Node
	tenantSvc      tenantdomain.Service
	identitySvc    identitydomain.Service
	auditSvc       auditdomain.Service
	loginLimiter   ratelimit.Limiter
	financeSvc     *finance.Service
	hrSvc          *hr.Service
	salesSvc       *sales.Service
	supplychainSvc *supplychain.Service
	navigationSvc  *navigation.Service
	referenceSvc   *reference.Service
	insightSvc     *insight.Service
	dashboardSvc   *dashboard.Service
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	DB             *gorm.DB
	Log            *zap.Logger
	GenID          *snowflake.Node
	TenantSvc      tenantdomain.Service
	IdentitySvc    identitydomain.Service
	AuditSvc       auditdomain.Service
	LoginLimiter   ratelimit.Limiter
	FinanceSvc     *finance.Service
	HRSvc          *hr.Service
	SalesSvc       *sales.Service
	SupplychainSvc *supplychain.Service
	NavigationSvc  *navigation.Service
	ReferenceSvc   *reference.Service
	InsightSvc     *insight.Service
	DashboardSvc   *dashboard.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		db:             p.DB,
		log:            p.Log.Named("server"),
		genID:          p.GenID,
		tenantSvc:      p.TenantSvc,
		identitySvc:    p.IdentitySvc,
		auditSvc:       p.AuditSvc,
		loginLimiter:   p.LoginLimiter,
		financeSvc:     p.FinanceSvc,
		hrSvc:          p.HRSvc,
		salesSvc:       p.SalesSvc,
		supplychainSvc: p.SupplychainSvc,
		navigationSvc:  p.NavigationSvc,
		referenceSvc:   p.ReferenceSvc,
		insightSvc:     p.InsightSvc,
		dashboardSvc:   p.DashboardSvc,
	}
}

// Engine exposes the underlying router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func registerRoutes(s *Server) {
	s.RegisterRoutes()
}

// RegisterRoutes mounts every API route. Everything except registration,
// login and tenant signup sits behind the bearer-token middleware.
func (s *Server) RegisterRoutes() {
	r := s.engine

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", s.Register)
		authGroup.POST("/login", s.Login)
	}

	r.POST("/tenants", s.CreateTenant)

	api := r.Group("/", s.AuthRequired())
	{
		api.GET("/tenants/me", s.GetOwnTenant)

		api.GET("/dashboard/stats", s.DashboardStats)

		api.GET("/financial/accounts", s.ListAccounts)
		api.POST("/financial/accounts", s.CreateAccount)
		api.GET("/financial/accounts/:id", s.GetAccount)
		api.GET("/financial/transactions", s.ListTransactions)
		api.POST("/financial/transactions", s.CreateTransaction)

		api.GET("/hr/employees", s.ListEmployees)
		api.POST("/hr/employees", s.CreateEmployee)
		api.GET("/hr/employees/:id", s.GetEmployee)
		api.PATCH("/hr/employees/:id", s.UpdateEmployee)
		api.DELETE("/hr/employees/:id", s.DeleteEmployee)

		api.GET("/sales/customers", s.ListCustomers)
		api.POST("/sales/customers", s.CreateCustomer)
		api.GET("/sales/customers/:id", s.GetCustomer)
		api.GET("/sales/opportunities", s.ListOpportunities)
		api.POST("/sales/opportunities", s.CreateOpportunity)
		api.GET("/sales/opportunities/:id", s.GetOpportunity)

		api.GET("/supplychain/products", s.ListProducts)
		api.POST("/supplychain/products", s.CreateProduct)
		api.GET("/supplychain/products/:id", s.GetProduct)
		api.GET("/supplychain/suppliers", s.ListSuppliers)
		api.POST("/supplychain/suppliers", s.CreateSupplier)
		api.GET("/supplychain/suppliers/:id", s.GetSupplier)

		api.GET("/navigation", s.ListNavigation)
		api.POST("/navigation", s.CreateNavigationItem)
		api.GET("/navigation/:id", s.GetNavigationItem)
		api.PATCH("/navigation/:id", s.UpdateNavigationItem)
		api.DELETE("/navigation/:id", s.DeleteNavigationItem)

		api.GET("/global-resources", s.ListGlobalResources)
		api.GET("/global-resources/:id", s.GetGlobalResource)
		api.POST("/global-resources", RequireAdmin(), s.CreateGlobalResource)
		api.PATCH("/global-resources/:id", RequireAdmin(), s.UpdateGlobalResource)
		api.DELETE("/global-resources/:id", RequireAdmin(), s.DeleteGlobalResource)

		api.GET("/ai/insights", s.ListInsights)
		api.POST("/ai/analyze", s.Analyze)
		api.POST("/ai/generate-insight", s.GenerateInsight)

		api.GET("/audit-logs", s.ListAuditLogs)
	}
}
