// Package permission decides whether one user may mutate another.
// Decisions are pure functions of the two role sets and the action.
package permission

import (
	"errors"

	"github.com/Baaaki/learning-platform/internal/models"
	"github.com/google/uuid"
)

type Action int

const (
	ActionUpdate Action = iota
	ActionDelete
	ActionManagePrivileges
)

func (a Action) String() string {
	switch a {
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	case ActionManagePrivileges:
		return "manage_privileges"
	}
	return "unknown"
}

var (
	ErrForbidden           = errors.New("forbidden")
	ErrSuperadminProtected = errors.New("superadmin cannot be deleted via API")
	ErrSelfPrivilege       = errors.New("cannot manage privileges of itself")
	ErrAlreadyAdmin        = errors.New("user already promoted to admin / super-admin")
	ErrNotAdmin            = errors.New("user has no admin privileges")
)

// Authorize evaluates the mutation rules in order and returns nil when actor
// may perform action on target.
func Authorize(actor, target *models.User, action Action) error {
	if action == ActionDelete && actor.IsSuperadmin() && target.IsSuperadmin() {
		return ErrSuperadminProtected
	}

	if actor.UserID == target.UserID {
		if action == ActionManagePrivileges {
			return ErrSelfPrivilege
		}
		return nil
	}

	if !actor.Roles.HasAny(models.RoleAdmin, models.RoleSuperadmin) {
		return ErrForbidden
	}
	if !actor.IsSuperadmin() && target.Roles.HasAny(models.RoleAdmin, models.RoleSuperadmin) {
		return ErrForbidden
	}
	if action == ActionManagePrivileges && !actor.IsSuperadmin() {
		return ErrForbidden
	}
	return nil
}

// CanModify is the boolean form of Authorize.
func CanModify(actor, target *models.User, action Action) bool {
	return Authorize(actor, target, action) == nil
}

// CanManagePrivileges gates promote/revoke before the target is loaded:
// only a superadmin may call them and never on itself.
func CanManagePrivileges(actor *models.User, targetID uuid.UUID) error {
	if !actor.IsSuperadmin() {
		return ErrForbidden
	}
	if actor.UserID == targetID {
		return ErrSelfPrivilege
	}
	return nil
}

// Promote returns the role set target should hold after being made admin.
func Promote(actor, target *models.User) (models.Roles, error) {
	if err := Authorize(actor, target, ActionManagePrivileges); err != nil {
		return nil, err
	}
	if target.Roles.HasAny(models.RoleAdmin, models.RoleSuperadmin) {
		return nil, ErrAlreadyAdmin
	}
	return target.Roles.With(models.RoleAdmin), nil
}

// Revoke returns the role set target should hold after losing admin.
func Revoke(actor, target *models.User) (models.Roles, error) {
	if err := Authorize(actor, target, ActionManagePrivileges); err != nil {
		return nil, err
	}
	if !target.IsAdmin() {
		return nil, ErrNotAdmin
	}
	return target.Roles.Without(models.RoleAdmin), nil
}
