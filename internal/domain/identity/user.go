package identity

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dawapos/backend/internal/domain/shared"
)

// Role determines what a user may do
type Role string

const (
	RoleCashier    Role = "CASHIER"
	RolePharmacist Role = "PHARMACIST"
	RoleManager    Role = "MANAGER"
	RoleAdmin      Role = "ADMIN"
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleCashier, RolePharmacist, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// CanApproveEdits reports whether the role may decide maker-checker
// requests against completed sales.
func (r Role) CanApproveEdits() bool {
	return r == RoleManager || r == RoleAdmin
}

// User is an authenticated operator within a tenant
type User struct {
	shared.TenantAggregateRoot
	Username     string     `gorm:"type:varchar(64);not null;index"`
	Email        string     `gorm:"type:varchar(255)"`
	FullName     string     `gorm:"type:varchar(255)"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'CASHIER'"`
	BranchID     *uuid.UUID `gorm:"type:uuid;index"`
	IsActive     bool       `gorm:"not null;default:true"`
}

// TableName returns the database table name
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user with a hashed password
func NewUser(tenantID uuid.UUID, username, password string, role Role) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "username is required")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_INPUT", "invalid role: %s", role)
	}
	u := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Username:            username,
		Role:                role,
		IsActive:            true,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword hashes and stores the password
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_INPUT", "password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
