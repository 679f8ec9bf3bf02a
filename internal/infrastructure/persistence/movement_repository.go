package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dawapos/backend/internal/domain/inventory"
	"github.com/dawapos/backend/internal/domain/shared"
)

// GormMovementRepository implements MovementRepository using GORM
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Create appends a movement to the log
func (r *GormMovementRepository) Create(ctx context.Context, movement *inventory.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// ExistsBySource reports whether a movement already exists for the
// given source document and lot.
func (r *GormMovementRepository) ExistsBySource(ctx context.Context, tenantID uuid.UUID, sourceRef string, sourceType inventory.SourceType, lotID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&inventory.Movement{}).
		Where("tenant_id = ? AND source_reference = ? AND source_type = ? AND stock_lot_id = ?",
			tenantID, sourceRef, sourceType, lotID).
		Count(&count).Error
	return count > 0, err
}

// FindAllForTenant finds all movements matching the filter
func (r *GormMovementRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Movement, error) {
	var movements []inventory.Movement
	err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID), filterScope(filter, "source_reference"), pageScope(filter)).
		Find(&movements).Error
	return movements, err
}

// CountForTenant counts movements matching the filter
func (r *GormMovementRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&inventory.Movement{}).
		Scopes(tenantScope(tenantID), filterScope(filter, "source_reference")).
		Count(&count).Error
	return count, err
}

var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
