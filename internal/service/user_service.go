package service

import (
	"context"
	"errors"

	"github.com/Baaaki/learning-platform/internal/metrics"
	"github.com/Baaaki/learning-platform/internal/models"
	"github.com/Baaaki/learning-platform/internal/permission"
	"github.com/Baaaki/learning-platform/internal/repository"
	"github.com/Baaaki/learning-platform/internal/utils"
	"github.com/Baaaki/learning-platform/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserRepository adds the conditional writes to UserStore.
type UserRepository interface {
	UserStore
	UpdateUser(ctx context.Context, id uuid.UUID, upd repository.UserUpdate) error
	UpdateRoles(ctx context.Context, id uuid.UUID, roles models.Roles) error
	SoftDeleteUser(ctx context.Context, id uuid.UUID) error
}

type CreateUserInput struct {
	Name     string
	Surname  string
	Email    string
	Password string
}

type UserService struct {
	users UserRepository
}

func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

// CreateUser registers an active account holding only the USER role.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	logger.Log.Info("User registration attempt",
		zap.String("email", in.Email),
	)
	return s.create(ctx, in, models.NewRoles(models.RoleUser))
}

// EnsureSuperadmin creates the superadmin account unless an active superadmin
// with that email exists, in which case it is returned unchanged. An active
// user without the SUPERADMIN role holding the email is ErrEmailNotSuperadmin.
// The bool reports whether a user was created.
func (s *UserService) EnsureSuperadmin(ctx context.Context, in CreateUserInput) (*models.User, bool, error) {
	existing, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, false, storageError("get user by email", err)
	}
	if existing != nil {
		if !existing.IsSuperadmin() {
			logger.Log.Error("Superadmin email belongs to a regular user",
				zap.String("user_id", existing.UserID.String()),
				zap.String("email", in.Email),
			)
			return nil, false, ErrEmailNotSuperadmin
		}
		logger.Log.Info("Superadmin already exists",
			zap.String("user_id", existing.UserID.String()),
			zap.Bool("is_superadmin", existing.IsSuperadmin()),
		)
		return existing, false, nil
	}

	user, err := s.create(ctx, in, models.NewRoles(models.RoleUser, models.RoleSuperadmin))
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *UserService) create(ctx context.Context, in CreateUserInput, roles models.Roles) (*models.User, error) {
	hashedPassword, err := utils.HashPassword(in.Password)
	if err != nil {
		logger.Log.Error("Failed to hash password",
			zap.Error(err),
		)
		return nil, err
	}

	user := &models.User{
		UserID:         uuid.New(),
		Name:           in.Name,
		Surname:        in.Surname,
		Email:          in.Email,
		HashedPassword: hashedPassword,
		IsActive:       true,
		Roles:          roles,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			logger.Log.Warn("Email already exists",
				zap.String("email", in.Email),
			)
			return nil, ErrEmailTaken
		}
		logger.Log.Error("Failed to create user in database",
			zap.String("email", in.Email),
			zap.Error(err),
		)
		return nil, storageError("create user", err)
	}

	logger.Log.Info("User registered successfully",
		zap.String("user_id", user.UserID.String()),
		zap.String("email", user.Email),
	)
	return user, nil
}

// GetUser returns the user with id, including soft-deleted ones.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		logger.Log.Error("Failed to get user",
			zap.String("user_id", id.String()),
			zap.Error(err),
		)
		return nil, storageError("get user", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// UpdateUser applies a partial profile update on behalf of actor.
func (s *UserService) UpdateUser(ctx context.Context, actor *models.User, id uuid.UUID, upd repository.UserUpdate) (uuid.UUID, error) {
	if upd.IsEmpty() {
		return uuid.Nil, ErrNoUpdateFields
	}

	target, err := s.GetUser(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.authorize(actor, target, permission.ActionUpdate); err != nil {
		return uuid.Nil, err
	}

	if err := s.users.UpdateUser(ctx, id, upd); err != nil {
		return uuid.Nil, s.writeError("update user", actor, id, err)
	}

	logger.Log.Info("User updated",
		zap.String("actor_id", actor.UserID.String()),
		zap.String("target_id", id.String()),
	)
	return id, nil
}

// DeleteUser soft-deletes the user on behalf of actor.
func (s *UserService) DeleteUser(ctx context.Context, actor *models.User, id uuid.UUID) (uuid.UUID, error) {
	target, err := s.GetUser(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.authorize(actor, target, permission.ActionDelete); err != nil {
		return uuid.Nil, err
	}

	if err := s.users.SoftDeleteUser(ctx, id); err != nil {
		return uuid.Nil, s.writeError("delete user", actor, id, err)
	}

	logger.Log.Info("User deactivated",
		zap.String("actor_id", actor.UserID.String()),
		zap.String("target_id", id.String()),
	)
	return id, nil
}

// GrantAdminPrivilege adds ADMIN to the target's roles. Superadmin only.
func (s *UserService) GrantAdminPrivilege(ctx context.Context, actor *models.User, id uuid.UUID) (uuid.UUID, error) {
	return s.changePrivileges(ctx, actor, id, "grant", permission.Promote)
}

// RevokeAdminPrivilege removes ADMIN from the target's roles. Superadmin only.
func (s *UserService) RevokeAdminPrivilege(ctx context.Context, actor *models.User, id uuid.UUID) (uuid.UUID, error) {
	return s.changePrivileges(ctx, actor, id, "revoke", permission.Revoke)
}

type roleChange func(actor, target *models.User) (models.Roles, error)

func (s *UserService) changePrivileges(ctx context.Context, actor *models.User, id uuid.UUID, op string, change roleChange) (uuid.UUID, error) {
	if err := permission.CanManagePrivileges(actor, id); err != nil {
		s.record(permission.ActionManagePrivileges, err)
		logger.Log.Warn("Privilege change rejected",
			zap.String("op", op),
			zap.String("actor_id", actor.UserID.String()),
			zap.String("target_id", id.String()),
			zap.Error(err),
		)
		return uuid.Nil, fromPermission(err)
	}

	target, err := s.GetUser(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if !target.IsActive {
		return uuid.Nil, ErrNotFound
	}

	roles, err := change(actor, target)
	s.record(permission.ActionManagePrivileges, err)
	if err != nil {
		logger.Log.Warn("Privilege change rejected",
			zap.String("op", op),
			zap.String("actor_id", actor.UserID.String()),
			zap.String("target_id", id.String()),
			zap.Error(err),
		)
		return uuid.Nil, fromPermission(err)
	}

	if err := s.users.UpdateRoles(ctx, id, roles); err != nil {
		return uuid.Nil, s.writeError("update roles", actor, id, err)
	}

	logger.Log.Info("Admin privileges changed",
		zap.String("op", op),
		zap.String("actor_id", actor.UserID.String()),
		zap.String("target_id", id.String()),
	)
	return id, nil
}

func (s *UserService) authorize(actor, target *models.User, action permission.Action) error {
	err := permission.Authorize(actor, target, action)
	s.record(action, err)
	if err != nil {
		logger.Log.Warn("Permission denied",
			zap.String("action", action.String()),
			zap.String("actor_id", actor.UserID.String()),
			zap.String("target_id", target.UserID.String()),
			zap.Error(err),
		)
		return fromPermission(err)
	}
	return nil
}

func (s *UserService) record(action permission.Action, err error) {
	result := "allowed"
	switch {
	case err == nil:
	case errors.Is(err, permission.ErrSuperadminProtected):
		result = "superadmin_protected"
	case errors.Is(err, permission.ErrSelfPrivilege):
		result = "self_privilege"
	case errors.Is(err, permission.ErrAlreadyAdmin), errors.Is(err, permission.ErrNotAdmin):
		result = "conflict"
	default:
		result = "forbidden"
	}
	metrics.PermissionDecisionsTotal.WithLabelValues(action.String(), result).Inc()
}

// writeError classifies a failed conditional write.
func (s *UserService) writeError(op string, actor *models.User, id uuid.UUID, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		logger.Log.Warn("Conditional write matched no active user",
			zap.String("op", op),
			zap.String("target_id", id.String()),
		)
		return ErrNoLongerActive
	case errors.Is(err, repository.ErrDuplicateEmail):
		logger.Log.Warn("Email already exists",
			zap.String("op", op),
			zap.String("target_id", id.String()),
		)
		return ErrEmailTaken
	default:
		logger.Log.Error("Failed to write user",
			zap.String("op", op),
			zap.String("actor_id", actor.UserID.String()),
			zap.String("target_id", id.String()),
			zap.Error(err),
		)
		return storageError(op, err)
	}
}
