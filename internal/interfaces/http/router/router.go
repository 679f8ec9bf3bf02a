package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dawapos/backend/internal/domain/identity"
	"github.com/dawapos/backend/internal/infrastructure/auth"
	"github.com/dawapos/backend/internal/infrastructure/config"
	"github.com/dawapos/backend/internal/infrastructure/logger"
	"github.com/dawapos/backend/internal/interfaces/http/handler"
	"github.com/dawapos/backend/internal/interfaces/http/middleware"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	Sales       *handler.SaleHandler
	Returns     *handler.SaleReturnHandler
	EditRequest *handler.EditRequestHandler
	Inventory   *handler.InventoryHandler
	Payments    *handler.PaymentHandler
}

// New builds the gin engine with all routes and middleware mounted
func New(cfg *config.Config, baseLogger *zap.Logger, jwtService *auth.JWTService, blacklist auth.TokenBlacklist, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(
		middleware.RequestID(baseLogger),
		logger.GinMiddleware(baseLogger),
		logger.Recovery(baseLogger),
		middleware.CORS(cfg.HTTP),
	)

	engine.GET("/healthz", h.Health.Liveness)
	engine.GET("/readyz", h.Health.Readiness)

	v1 := engine.Group("/api/v1")

	// Public endpoints
	v1.POST("/auth/login", h.Auth.Login)
	v1.POST("/auth/refresh", h.Auth.Refresh)
	// Safaricom posts payment results here; it cannot carry our JWT
	v1.POST("/payments/mpesa/callback", h.Payments.Callback)

	authed := v1.Group("")
	authed.Use(middleware.JWTAuth(jwtService, blacklist))
	{
		authed.POST("/auth/logout", h.Auth.Logout)

		authed.POST("/sales", h.Sales.Create)
		authed.GET("/sales", h.Sales.List)
		authed.GET("/sales/my/commission", h.Sales.MyCommission)
		authed.GET("/sales/:id", h.Sales.Get)
		authed.POST("/sales/:id/returns", h.Returns.Create)
		authed.GET("/sales/:id/returns", h.Returns.ListBySale)
		authed.GET("/returns/:id", h.Returns.Get)

		authed.POST("/edit-requests", h.EditRequest.Create)
		authed.GET("/edit-requests", h.EditRequest.List)
		authed.GET("/edit-requests/:id", h.EditRequest.Get)

		authed.POST("/inventory/receive", h.Inventory.Receive)
		authed.POST("/inventory/adjust", h.Inventory.Adjust)
		authed.GET("/inventory/lots", h.Inventory.ListLots)
		authed.GET("/inventory/movements", h.Inventory.ListMovements)

		authed.POST("/payments/mpesa/stk-push", h.Payments.StkPush)
		authed.GET("/payments/mpesa/status/:id", h.Payments.QueryStatus)

		// Supervisory endpoints
		privileged := authed.Group("")
		privileged.Use(middleware.RequireRole(identity.RoleManager, identity.RoleAdmin))
		{
			privileged.POST("/edit-requests/:id/decision", h.EditRequest.Decide)
			privileged.GET("/sales/commission/:id", h.Sales.Commission)
		}
	}

	return engine
}
