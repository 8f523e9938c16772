package handler

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/Baaaki/learning-platform/internal/config"
	"github.com/Baaaki/learning-platform/internal/database"
	"github.com/Baaaki/learning-platform/internal/middleware"
	"github.com/Baaaki/learning-platform/internal/service"
	"github.com/Baaaki/learning-platform/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const healthCheckTimeout = 2 * time.Second

type RouterDeps struct {
	Config      *config.Config
	DB          *gorm.DB
	AuthService *service.AuthService
	UserService *service.UserService
}

// NewRouter builds the HTTP API.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.SecurityHeadersMiddleware(),
		middleware.HSTSMiddleware(deps.Config.IsProduction()),
		cors.New(corsConfig(deps.Config.CORSOrigins)),
	)

	authHandler := NewAuthHandler(deps.AuthService)
	userHandler := NewUserHandler(deps.UserService)

	router.GET("/healthz", healthz(deps.DB))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/login/token", authHandler.Login)

	users := router.Group("/user")
	users.POST("/", userHandler.Create)

	// Protected routes (require bearer token)
	protected := users.Group("", middleware.AuthMiddleware(deps.AuthService))
	{
		protected.GET("/", userHandler.Get)
		protected.PATCH("/", userHandler.Update)
		protected.DELETE("/", userHandler.Delete)
		protected.PATCH("/admin_privilege", userHandler.GrantAdminPrivilege)
		protected.DELETE("/admin_privilege", userHandler.RevokeAdminPrivilege)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"WWW-Authenticate"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		if err := database.Ping(ctx, db); err != nil {
			logger.Log.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
