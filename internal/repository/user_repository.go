package repository

import (
	"context"
	"errors"

	"github.com/Baaaki/learning-platform/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNotFound means a conditional write matched no row: the user does not
	// exist or is no longer active.
	ErrNotFound       = errors.New("user not found or inactive")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserUpdate carries the optional profile fields of a partial update.
type UserUpdate struct {
	Name    *string
	Surname *string
	Email   *string
}

func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Surname == nil && u.Email == nil
}

func (u UserUpdate) columns() map[string]interface{} {
	cols := make(map[string]interface{}, 3)
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.Surname != nil {
		cols["surname"] = *u.Surname
	}
	if u.Email != nil {
		cols["email"] = *u.Email
	}
	return cols
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

// GetUserByID returns the user regardless of its active flag, or nil when absent.
func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("user_id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail returns the active user with email, or nil.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ? AND is_active = ?", email, true).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies the non-nil fields of upd to an active user.
func (r *UserRepository) UpdateUser(ctx context.Context, id uuid.UUID, upd UserUpdate) error {
	if upd.IsEmpty() {
		return errors.New("repository: empty update")
	}
	return r.updateActive(ctx, id, upd.columns())
}

// UpdateRoles replaces the role set of an active user.
func (r *UserRepository) UpdateRoles(ctx context.Context, id uuid.UUID, roles models.Roles) error {
	return r.updateActive(ctx, id, map[string]interface{}{"roles": roles})
}

// SoftDeleteUser flips is_active to false. Deleting an inactive user is ErrNotFound.
func (r *UserRepository) SoftDeleteUser(ctx context.Context, id uuid.UUID) error {
	return r.updateActive(ctx, id, map[string]interface{}{"is_active": false})
}

// updateActive issues one conditional UPDATE guarded by is_active = true.
// Zero affected rows is reported as ErrNotFound without retrying.
func (r *UserRepository) updateActive(ctx context.Context, id uuid.UUID, cols map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("user_id = ? AND is_active = ?", id, true).
		Updates(cols)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
