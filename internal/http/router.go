package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/assetly/assetly-auth/internal/config"
	"github.com/assetly/assetly-auth/internal/http/handler"
	httpmiddleware "github.com/assetly/assetly-auth/internal/http/middleware"
	"github.com/assetly/assetly-auth/internal/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(
	cfg config.Config,
	authHandler *handler.AuthHandler,
	accountHandler *handler.AccountHandler,
	alertHandler *handler.AlertHandler,
	authMiddleware *httpmiddleware.Auth,
	rateLimiter *middleware.RateLimiter,
) *gin.Engine {
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(nil))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", authMiddleware.RequireAuth, authHandler.Me)
	}

	accounts := r.Group("/accounts", authMiddleware.RequireAuth)
	{
		accounts.GET("", accountHandler.List)
		accounts.POST("", authMiddleware.RequireAdmin, accountHandler.Create)
		accounts.GET("/:id", accountHandler.Get)
		accounts.DELETE("/:id", authMiddleware.RequireAdmin, accountHandler.Delete)
		accounts.POST("/:id/unlock", authMiddleware.RequireAdmin, accountHandler.Unlock)
	}

	alerts := r.Group("/alerts", authMiddleware.RequireAuth, authMiddleware.RequireAdmin)
	{
		alerts.GET("", alertHandler.List)
		alerts.POST("/:id/resolve", alertHandler.Resolve)
	}

	return r
}
