package handler

import (
	"net/http"

	"github.com/Baaaki/learning-platform/internal/middleware"
	"github.com/Baaaki/learning-platform/internal/models"
	"github.com/Baaaki/learning-platform/internal/repository"
	"github.com/Baaaki/learning-platform/internal/service"
	"github.com/Baaaki/learning-platform/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	registerValidators()
	return &UserHandler{
		userService: userService,
	}
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,letters"`
	Surname  string `json:"surname" binding:"required,letters"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest holds the optional profile fields; absent and null are the same.
type UpdateUserRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,letters"`
	Surname *string `json:"surname" binding:"omitempty,min=1,letters"`
	Email   *string `json:"email" binding:"omitempty,email"`
}

// ShowUser is the public view of a user. Roles and the password hash stay private.
type ShowUser struct {
	UserID   uuid.UUID `json:"user_id"`
	Name     string    `json:"name"`
	Surname  string    `json:"surname"`
	Email    string    `json:"email"`
	IsActive bool      `json:"is_active"`
}

func showUser(u *models.User) ShowUser {
	return ShowUser{
		UserID:   u.UserID,
		Name:     u.Name,
		Surname:  u.Surname,
		Email:    u.Email,
		IsActive: u.IsActive,
	}
}

type UpdatedUserResponse struct {
	UpdatedUserID uuid.UUID `json:"updated_user_id"`
}

type DeleteUserResponse struct {
	DeletedUserID uuid.UUID `json:"deleted_user_id"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Create user request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		bindError(c, err)
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), service.CreateUserInput{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err, uuid.Nil)
		return
	}

	c.JSON(http.StatusOK, showUser(user))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := queryUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, showUser(user))
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := queryUserID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Update user request parsing failed",
			zap.String("user_id", id.String()),
			zap.Error(err),
		)
		bindError(c, err)
		return
	}

	updatedID, err := h.userService.UpdateUser(c.Request.Context(), middleware.CurrentUser(c), id, repository.UserUpdate{
		Name:    req.Name,
		Surname: req.Surname,
		Email:   req.Email,
	})
	if err != nil {
		respondError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, UpdatedUserResponse{UpdatedUserID: updatedID})
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := queryUserID(c)
	if !ok {
		return
	}

	deletedID, err := h.userService.DeleteUser(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, DeleteUserResponse{DeletedUserID: deletedID})
}

func (h *UserHandler) GrantAdminPrivilege(c *gin.Context) {
	id, ok := queryUserID(c)
	if !ok {
		return
	}

	updatedID, err := h.userService.GrantAdminPrivilege(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, UpdatedUserResponse{UpdatedUserID: updatedID})
}

func (h *UserHandler) RevokeAdminPrivilege(c *gin.Context) {
	id, ok := queryUserID(c)
	if !ok {
		return
	}

	updatedID, err := h.userService.RevokeAdminPrivilege(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, UpdatedUserResponse{UpdatedUserID: updatedID})
}
