package service

import (
	"errors"
	"fmt"

	"github.com/Baaaki/learning-platform/internal/permission"
)

// Error classes. Every error returned by this package matches exactly one of
// them with errors.Is; handlers map classes to transport status codes.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("could not validate credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

var (
	ErrInvalidCredentials  = fmt.Errorf("%w: incorrect username or password", ErrUnauthenticated)
	ErrNoUpdateFields      = fmt.Errorf("%w: at least one parameter for user update info should be provided", ErrValidation)
	ErrNoLongerActive      = fmt.Errorf("%w: user is no longer active", ErrNotFound)
	ErrEmailTaken          = fmt.Errorf("%w: email already registered", ErrStorageUnavailable)
	ErrEmailNotSuperadmin  = fmt.Errorf("%w: email already registered to a user without the superadmin role", ErrConflict)
	ErrSuperadminProtected = fmt.Errorf("%w: %w", ErrForbidden, permission.ErrSuperadminProtected)
	ErrSelfPrivilege       = fmt.Errorf("%w: %w", ErrForbidden, permission.ErrSelfPrivilege)
	ErrAlreadyAdmin        = fmt.Errorf("%w: %w", ErrConflict, permission.ErrAlreadyAdmin)
	ErrNotAdmin            = fmt.Errorf("%w: %w", ErrConflict, permission.ErrNotAdmin)
)

// fromPermission lifts a permission decision into the service taxonomy.
func fromPermission(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, permission.ErrSuperadminProtected):
		return ErrSuperadminProtected
	case errors.Is(err, permission.ErrSelfPrivilege):
		return ErrSelfPrivilege
	case errors.Is(err, permission.ErrAlreadyAdmin):
		return ErrAlreadyAdmin
	case errors.Is(err, permission.ErrNotAdmin):
		return ErrNotAdmin
	default:
		return ErrForbidden
	}
}

// storageError wraps an unexpected persistence failure.
func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}
