package main

import (
	"context"
	"log"
	"strings"

	"github.com/Baaaki/learning-platform/internal/config"
	"github.com/Baaaki/learning-platform/internal/database"
	"github.com/Baaaki/learning-platform/internal/repository"
	"github.com/Baaaki/learning-platform/internal/service"
	"github.com/Baaaki/learning-platform/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg, err := config.LoadSeed(ctx, envconfig.OsLookuper())
	if err != nil {
		log.Fatal("Missing environment variables: SUPERADMIN_NAME, SUPERADMIN_SURNAME, SUPERADMIN_EMAIL, SUPERADMIN_PASSWORD: ", err)
	}

	if err := logger.Init(!strings.EqualFold(cfg.Environment, "production"), cfg.LogLevel); err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
	}

	userService := service.NewUserService(repository.NewUserRepository(db))
	user, created, err := userService.EnsureSuperadmin(ctx, service.CreateUserInput{
		Name:     cfg.Name,
		Surname:  cfg.Surname,
		Email:    cfg.Email,
		Password: cfg.Password,
	})
	if err != nil {
		logger.Log.Fatal("Failed to create superadmin", zap.Error(err))
	}

	if !created {
		logger.Log.Info("Superadmin already exists",
			zap.String("user_id", user.UserID.String()),
			zap.String("email", user.Email),
		)
		return
	}

	logger.Log.Info("Superadmin created successfully",
		zap.String("user_id", user.UserID.String()),
		zap.String("email", user.Email),
	)
}
