package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dawapos/backend/internal/domain/partner"
	"github.com/dawapos/backend/internal/domain/shared"
)

// GormBranchRepository implements BranchRepository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// FindByIDForTenant finds a branch by ID within a tenant
func (r *GormBranchRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Branch, error) {
	var branch partner.Branch
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		First(&branch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &branch, nil
}

// Save persists a branch
func (r *GormBranchRepository) Save(ctx context.Context, branch *partner.Branch) error {
	return r.db.WithContext(ctx).Save(branch).Error
}

var _ partner.BranchRepository = (*GormBranchRepository)(nil)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByIDForTenant finds a customer by ID within a tenant
func (r *GormCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// Save persists a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
