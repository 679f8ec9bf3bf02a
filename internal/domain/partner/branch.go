package partner

import (
	"strings"

	"github.com/google/uuid"

	"github.com/dawapos/backend/internal/domain/shared"
)

// Branch is a physical location within a tenant. Each branch owns its
// own stock lots.
type Branch struct {
	shared.TenantAggregateRoot
	Name     string `gorm:"type:varchar(255);not null"`
	Code     string `gorm:"type:varchar(32);not null;index"`
	Address  string `gorm:"type:text"`
	Phone    string `gorm:"type:varchar(32)"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the database table name
func (Branch) TableName() string {
	return "branches"
}

// NewBranch creates a new branch
func NewBranch(tenantID uuid.UUID, name, code string) (*Branch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "branch name is required")
	}
	if strings.TrimSpace(code) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "branch code is required")
	}
	return &Branch{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Code:                code,
		IsActive:            true,
	}, nil
}
