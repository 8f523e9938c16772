package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Baaaki/learning-platform/internal/config"
	"github.com/Baaaki/learning-platform/internal/database"
	"github.com/Baaaki/learning-platform/internal/handler"
	"github.com/Baaaki/learning-platform/internal/repository"
	"github.com/Baaaki/learning-platform/internal/service"
	"github.com/Baaaki/learning-platform/internal/utils"
	"github.com/Baaaki/learning-platform/pkg/logger"
	"github.com/Baaaki/learning-platform/pkg/monitor"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(!cfg.IsProduction(), cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	hostname, _ := os.Hostname()
	if err := monitor.Init(monitor.Options{
		DSN:         cfg.SentryDSN,
		ServerName:  hostname,
		Environment: cfg.Environment,
	}); err != nil {
		logger.Log.Fatal("Failed to initialize Sentry", zap.Error(err))
	}
	defer monitor.Flush(2 * time.Second)

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
	}

	tokens, err := utils.NewTokenService(cfg.Token())
	if err != nil {
		logger.Log.Fatal("Failed to initialize token service", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo)

	router := handler.NewRouter(handler.RouterDeps{
		Config:      cfg,
		DB:          db,
		AuthService: authService,
		UserService: userService,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Server starting",
			zap.String("addr", cfg.ServerAddr),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Server stopped unexpectedly", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Graceful shutdown failed", zap.Error(err))
		return
	}
	logger.Log.Info("Server stopped")
}
