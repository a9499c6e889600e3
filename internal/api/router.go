package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/solera-market/solera/internal/api/handlers"
	"github.com/solera-market/solera/internal/api/middleware"
	"github.com/solera-market/solera/internal/auth"
	"github.com/solera-market/solera/internal/bus"
	"github.com/solera-market/solera/internal/config"
	"github.com/solera-market/solera/internal/mailer"
	"github.com/solera-market/solera/internal/places"
	"github.com/solera-market/solera/internal/rbac"
	"github.com/solera-market/solera/internal/service"
	"github.com/solera-market/solera/internal/settings"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *gorm.DB, svc *settings.Service, b bus.InvalidationBus, enforcer *rbac.Enforcer, authenticator auth.Authenticator) *gin.Engine {
	// Set Gin mode
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware())
	router.Use(corsMiddleware())

	// Initialize handlers
	infoHandler := handlers.NewInfoHandler(db)
	settingsHandler := handlers.NewSettingsHandler(svc, db, b)
	pageHandler := handlers.NewPageHandler(service.NewPageService(db), db)
	placesHandler := handlers.NewPlacesHandler(places.NewClient(svc))
	catalogHandler := handlers.NewCatalogHandler(db)
	adminHandler := handlers.NewAdminHandler(db, enforcer)
	emailHandler := handlers.NewEmailHandler(mailer.New(svc), db)

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", handlers.HealthCheck)
		public.GET("/version", infoHandler.GetVersion)
		public.POST("/auth/login", handlers.Login(authenticator, db))

		// Public platform settings projection
		public.GET("/platform/settings/public", settingsHandler.GetPublicSettings)
		public.GET("/platform/settings/google/public", settingsHandler.GetGooglePublic)
		public.GET("/platform/settings/stripe/public", settingsHandler.GetStripePublic)

		// Storefront
		public.GET("/pages/:slug", pageHandler.GetPublishedPage)
		public.GET("/places/autocomplete", placesHandler.Autocomplete)
		public.GET("/vendors", catalogHandler.ListVendors)
		public.GET("/vendors/:slug", catalogHandler.GetVendor)
		public.GET("/vendors/:slug/products", catalogHandler.ListVendorProducts)
		public.GET("/products", catalogHandler.ListProducts)
		public.GET("/products/:slug", catalogHandler.GetProduct)
	}

	// OIDC routes (only when the configured authenticator supports it)
	if oidcAuth, ok := authenticator.(*auth.OIDCAuthenticator); ok {
		public.GET("/auth/oidc/login", handlers.OIDCLogin(oidcAuth))
		public.GET("/auth/oidc/callback", handlers.OIDCCallback(oidcAuth))
	}

	// Admin routes (require authentication + admin role)
	admin := router.Group("/api/v1")
	admin.Use(authenticator.Middleware())
	admin.Use(middleware.RequireAdmin(enforcer))
	{
		// Platform settings
		admin.GET("/platform/settings", settingsHandler.ListSettings)
		admin.PUT("/platform/settings/:key", settingsHandler.UpdateSetting)
		admin.PUT("/platform/secrets/:key", settingsHandler.UpdateSecret)

		// CMS pages
		admin.GET("/platform/pages", pageHandler.ListPages)
		admin.POST("/platform/pages", pageHandler.CreatePage)
		admin.PUT("/platform/pages/:id", pageHandler.UpdatePage)
		admin.DELETE("/platform/pages/:id", pageHandler.DeletePage)

		// Catalog management
		admin.POST("/admin/vendors", catalogHandler.CreateVendor)
		admin.POST("/admin/products", catalogHandler.CreateProduct)

		// User management and audit trail
		admin.GET("/admin/users", adminHandler.ListUsers)
		admin.POST("/admin/users", adminHandler.CreateUser)
		admin.PUT("/admin/users/:id/admin", adminHandler.ToggleAdmin)
		admin.DELETE("/admin/users/:id", adminHandler.DeleteUser)
		admin.GET("/admin/audit-logs", adminHandler.ListAuditLogs)

		// Email settings verification
		admin.POST("/admin/email/test", emailHandler.SendTestEmail)
	}

	// Swagger documentation
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	slog.Info("API router initialized", "mode", cfg.Server.Mode)
	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		slog.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"ip", c.ClientIP(),
		)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
