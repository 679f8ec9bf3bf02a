package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dawapos/backend/internal/domain/sales"
	"github.com/dawapos/backend/internal/domain/shared"
)

// GormEditRequestRepository implements EditRequestRepository using GORM
type GormEditRequestRepository struct {
	db *gorm.DB
}

// NewGormEditRequestRepository creates a new GormEditRequestRepository
func NewGormEditRequestRepository(db *gorm.DB) *GormEditRequestRepository {
	return &GormEditRequestRepository{db: db}
}

// Create persists an edit request
func (r *GormEditRequestRepository) Create(ctx context.Context, request *sales.EditRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// Save persists changes to an edit request
func (r *GormEditRequestRepository) Save(ctx context.Context, request *sales.EditRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// FindByIDForTenant finds an edit request by ID within a tenant
func (r *GormEditRequestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.EditRequest, error) {
	var request sales.EditRequest
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindAllForTenant finds all edit requests matching the filter
func (r *GormEditRequestRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.EditRequest, error) {
	var requests []sales.EditRequest
	err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID), filterScope(filter), pageScope(filter)).
		Find(&requests).Error
	return requests, err
}

// CountForTenant counts edit requests matching the filter
func (r *GormEditRequestRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&sales.EditRequest{}).
		Scopes(tenantScope(tenantID), filterScope(filter)).
		Count(&count).Error
	return count, err
}

var _ sales.EditRequestRepository = (*GormEditRequestRepository)(nil)
