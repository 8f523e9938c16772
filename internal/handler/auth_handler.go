package handler

import (
	"errors"
	"net/http"

	"github.com/Baaaki/learning-platform/internal/service"
	"github.com/Baaaki/learning-platform/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	registerValidators()
	return &AuthHandler{
		authService: authService,
	}
}

// LoginForm is the OAuth2 password grant form; username carries the email.
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form LoginForm

	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		logger.Log.Warn("Login request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		bindError(c, err)
		return
	}

	logger.Log.Info("User login attempt",
		zap.String("email", form.Username),
		zap.String("ip", c.ClientIP()),
	)

	_, token, err := h.authService.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Incorrect username or password",
			})
			return
		}
		respondError(c, err, uuid.Nil)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
