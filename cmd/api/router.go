package main

import (
	"log/slog"
	"net/http"

	"designshop/internal/config"
	"designshop/internal/middleware"
	"designshop/internal/modules/access"
	"designshop/internal/modules/admin"
	"designshop/internal/modules/audit"
	"designshop/internal/modules/auth"
	"designshop/internal/modules/designer"
	"designshop/internal/modules/order"
	"designshop/internal/pkg/cache"
	"designshop/internal/pkg/jwt"
	"designshop/internal/pkg/metrics"
	"designshop/internal/pkg/response"
	"designshop/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// newRouter wires repositories, services and handlers. rdb may be nil.
func newRouter(cfg *config.Config, log *slog.Logger, db *gorm.DB, rdb *cache.Redis) *gin.Engine {
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	requestRepo := repository.NewDesignerRequestRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Keep the interfaces nil rather than holding a nil *cache.Redis.
	var (
		capsCache access.Cache
		counter   middleware.Counter
	)
	if rdb != nil {
		capsCache = rdb
		counter = rdb
	}

	resolver := access.NewResolver(userRepo, capsCache, cfg.CapabilityCacheTTL)
	ledger := audit.NewLedger(auditRepo)
	jwtSvc := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	authHandler := auth.NewHandler(auth.NewService(userRepo, jwtSvc))
	designerHandler := designer.NewHandler(designer.NewService(userRepo, requestRepo, ledger, resolver))
	adminHandler := admin.NewHandler(admin.NewService(userRepo, ledger, resolver))
	orderHandler := order.NewHandler(order.NewService(orderRepo, productRepo, ledger))

	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics())
		r.GET("/metrics", middleware.StaticTokenAuth(cfg.MetricsToken), gin.WrapH(metrics.Handler()))
	}

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "UNHEALTHY", "Database unavailable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authGroup := api.Group("/auth", middleware.OptionalJWTAuth(jwtSvc), middleware.ResolveCaller(resolver))
	authHandler.RegisterRoutes(authGroup)

	protected := api.Group("/auth",
		middleware.JWTAuth(jwtSvc),
		middleware.ResolveCaller(resolver),
		middleware.RequireCaller(),
	)
	designerHandler.RegisterRoutes(protected)
	adminHandler.RegisterRoutes(protected)

	orders := api.Group("/orders",
		middleware.JWTAuth(jwtSvc),
		middleware.ResolveCaller(resolver),
		middleware.RequireCaller(),
	)
	orderHandler.RegisterRoutes(orders, middleware.RateLimit(counter, cfg.RateLimitPerMinute))

	return r
}
