package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Baaaki/learning-platform/internal/middleware"
	"github.com/Baaaki/learning-platform/internal/service"
	"github.com/Baaaki/learning-platform/pkg/logger"
	"github.com/Baaaki/learning-platform/pkg/monitor"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

// respondError maps a service error about user id to its HTTP response.
// Order matters: the specific errors wrap the classes below them.
func respondError(c *gin.Context, err error, id uuid.UUID) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, service.ErrSuperadminProtected):
		detail(c, http.StatusNotAcceptable, "Superadmin cannot be deleted via API")
	case errors.Is(err, service.ErrSelfPrivilege):
		detail(c, http.StatusBadRequest, "Cannot manage privileges of itself.")
	case errors.Is(err, service.ErrForbidden):
		detail(c, http.StatusForbidden, "Forbidden.")
	case errors.Is(err, service.ErrNoLongerActive):
		detail(c, http.StatusNotFound, fmt.Sprintf("User with id %s is not found.", id))
	case errors.Is(err, service.ErrNotFound):
		detail(c, http.StatusNotFound, fmt.Sprintf("User with id %s not found.", id))
	case errors.Is(err, service.ErrAlreadyAdmin):
		detail(c, http.StatusConflict, fmt.Sprintf("User with id %s already promoted to admin / super-admin.", id))
	case errors.Is(err, service.ErrNotAdmin):
		detail(c, http.StatusConflict, fmt.Sprintf("User with id %s has no admin privileges.", id))
	case errors.Is(err, service.ErrNoUpdateFields):
		detail(c, http.StatusUnprocessableEntity, "At least one parameter for user update info should be provided")
	case errors.Is(err, service.ErrValidation):
		detail(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		middleware.Unauthorized(c)
	case errors.Is(err, service.ErrEmailTaken):
		detail(c, http.StatusServiceUnavailable, "Database error: email already registered")
	case errors.Is(err, service.ErrStorageUnavailable):
		reportUnexpected(c, err)
		detail(c, http.StatusServiceUnavailable, "Database error")
	default:
		reportUnexpected(c, err)
		detail(c, http.StatusInternalServerError, "Internal Server Error")
	}
}

// reportUnexpected logs and forwards failures no client input can explain.
func reportUnexpected(c *gin.Context, err error) {
	logger.Log.Error("Request failed",
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
		zap.Error(err),
	)
	monitor.CaptureError(err, map[string]string{
		"method": c.Request.Method,
		"route":  c.FullPath(),
	})
}
