package testutil

import (
	"testing"

	"github.com/Baaaki/learning-platform/internal/models"
	"github.com/Baaaki/learning-platform/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultPassword is the plaintext of every fixture user.
const DefaultPassword = "Test123456"

// UserFixture describes a user row to insert directly, bypassing the API.
type UserFixture struct {
	Name     string
	Surname  string
	Email    string
	Password string
	Inactive bool
	Roles    []models.Role
}

// CreateTestUser inserts f and returns the stored user.
func CreateTestUser(t *testing.T, db *gorm.DB, f UserFixture) *models.User {
	t.Helper()

	if f.Name == "" {
		f.Name = "Artem"
	}
	if f.Surname == "" {
		f.Surname = "Budzhak"
	}
	if f.Email == "" {
		f.Email = uuid.NewString()[:8] + "@example.com"
	}
	if f.Password == "" {
		f.Password = DefaultPassword
	}
	if len(f.Roles) == 0 {
		f.Roles = []models.Role{models.RoleUser}
	}

	hashedPassword, err := utils.HashPassword(f.Password)
	if err != nil {
		t.Fatalf("Failed to hash fixture password: %v", err)
	}

	user := &models.User{
		UserID:         uuid.New(),
		Name:           f.Name,
		Surname:        f.Surname,
		Email:          f.Email,
		HashedPassword: hashedPassword,
		IsActive:       true,
		Roles:          models.NewRoles(f.Roles...),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create fixture user: %v", err)
	}

	// gorm skips zero values on insert, so the default:true column needs an explicit update
	if f.Inactive {
		if err := db.Model(user).Update("is_active", false).Error; err != nil {
			t.Fatalf("Failed to deactivate fixture user: %v", err)
		}
		user.IsActive = false
	}
	return user
}

// DefaultTestUser returns a regular user
func DefaultTestUser(t *testing.T, db *gorm.DB) *models.User {
	return CreateTestUser(t, db, UserFixture{Email: "user@example.com"})
}

// DefaultAdminUser returns an admin user
func DefaultAdminUser(t *testing.T, db *gorm.DB) *models.User {
	return CreateTestUser(t, db, UserFixture{
		Email: "admin@example.com",
		Roles: []models.Role{models.RoleUser, models.RoleAdmin},
	})
}

// DefaultSuperadminUser returns a superadmin user
func DefaultSuperadminUser(t *testing.T, db *gorm.DB) *models.User {
	return CreateTestUser(t, db, UserFixture{
		Email: "superadmin@example.com",
		Roles: []models.Role{models.RoleUser, models.RoleSuperadmin},
	})
}

// FetchUser reads a user row straight from the database.
func FetchUser(t *testing.T, db *gorm.DB, id uuid.UUID) *models.User {
	t.Helper()

	var user models.User
	if err := db.Where("user_id = ?", id).First(&user).Error; err != nil {
		t.Fatalf("Failed to fetch user %s: %v", id, err)
	}
	return &user
}
