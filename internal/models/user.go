package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser       Role = "ROLE_PORTAL_USER"
	RoleAdmin      Role = "ROLE_PORTAL_ADMIN"
	RoleSuperadmin Role = "ROLE_PORTAL_SUPERADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// Roles is a set of role tags stored as a comma separated column.
// Order is insertion order, duplicates are never kept.
type Roles []Role

func NewRoles(roles ...Role) Roles {
	var out Roles
	for _, r := range roles {
		out = out.With(r)
	}
	return out
}

func (rs Roles) Has(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// HasAny reports whether rs and roles intersect.
func (rs Roles) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if rs.Has(r) {
			return true
		}
	}
	return false
}

// With returns a copy of rs that contains role.
func (rs Roles) With(role Role) Roles {
	out := make(Roles, 0, len(rs)+1)
	out = append(out, rs...)
	if !rs.Has(role) {
		out = append(out, role)
	}
	return out
}

// Without returns a copy of rs that does not contain role.
func (rs Roles) Without(role Role) Roles {
	out := make(Roles, 0, len(rs))
	for _, r := range rs {
		if r != role {
			out = append(out, r)
		}
	}
	return out
}

func (rs Roles) Value() (driver.Value, error) {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = string(r)
	}
	return strings.Join(parts, ","), nil
}

func (rs *Roles) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*rs = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("roles: cannot scan %T", src)
	}

	var out Roles
	for _, part := range strings.Split(raw, ",") {
		role := Role(strings.TrimSpace(part))
		if role == "" {
			continue
		}
		if !role.Valid() {
			return fmt.Errorf("roles: unknown role %q", role)
		}
		out = out.With(role)
	}
	*rs = out
	return nil
}

type User struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Name           string    `gorm:"type:varchar(100);not null" json:"name"`
	Surname        string    `gorm:"type:varchar(100);not null" json:"surname"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"type:varchar(255);not null" json:"-"` // Never expose password hash in JSON
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	Roles          Roles     `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Roles.Has(RoleAdmin)
}

func (u *User) IsSuperadmin() bool {
	return u.Roles.Has(RoleSuperadmin)
}
