package service

import (
	"context"
	"time"

	"github.com/Baaaki/learning-platform/internal/metrics"
	"github.com/Baaaki/learning-platform/internal/models"
	"github.com/Baaaki/learning-platform/internal/utils"
	"github.com/Baaaki/learning-platform/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// auxiliaryClaims are embedded in every access token. They are informational
// only and never read back for authorization.
var auxiliaryClaims = map[string]any{
	"other_custom_data": []int{1, 2, 3, 4},
}

// UserStore is the persistence the services depend on.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type AuthService struct {
	users  UserStore
	tokens *utils.TokenService
}

func NewAuthService(users UserStore, tokens *utils.TokenService) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
	}
}

// Login checks the credentials and issues an access token for the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	start := time.Now()

	logger.Log.Debug("Processing user login",
		zap.String("email", email),
	)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		logger.Log.Error("Failed to get user by email",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", storageError("get user by email", err)
	}
	if user == nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		logger.Log.Warn("Login failed: user not found",
			zap.String("email", email),
		)
		return nil, "", ErrInvalidCredentials
	}

	verifyStart := time.Now()
	valid := utils.VerifyPassword(password, user.HashedPassword)
	verifyDuration := time.Since(verifyStart)

	if !valid {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		logger.Log.Warn("Login failed: invalid password",
			zap.String("email", email),
			zap.String("user_id", user.UserID.String()),
		)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.UserID, s.tokens.Lifetime(), auxiliaryClaims)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		logger.Log.Error("Failed to generate JWT token",
			zap.String("user_id", user.UserID.String()),
			zap.Error(err),
		)
		return nil, "", err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	logger.Log.Info("User logged in successfully",
		zap.String("user_id", user.UserID.String()),
		zap.Duration("password_verify_duration", verifyDuration),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, token, nil
}

// Authenticate resolves the caller behind a bearer token. Bad tokens and
// tokens naming a missing or inactive user fail the same way.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		logger.Log.Debug("Token verification failed",
			zap.Error(err),
		)
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetUserByID(ctx, subject)
	if err != nil {
		logger.Log.Error("Failed to resolve token subject",
			zap.String("user_id", subject.String()),
			zap.Error(err),
		)
		return nil, storageError("get user by id", err)
	}
	if user == nil || !user.IsActive {
		logger.Log.Warn("Token subject is unknown or inactive",
			zap.String("user_id", subject.String()),
		)
		return nil, ErrUnauthenticated
	}

	return user, nil
}
