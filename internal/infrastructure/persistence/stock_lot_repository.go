package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dawapos/backend/internal/domain/inventory"
	"github.com/dawapos/backend/internal/domain/shared"
)

// GormStockLotRepository implements StockLotRepository using GORM
type GormStockLotRepository struct {
	db *gorm.DB
}

// NewGormStockLotRepository creates a new GormStockLotRepository
func NewGormStockLotRepository(db *gorm.DB) *GormStockLotRepository {
	return &GormStockLotRepository{db: db}
}

// FindByIDForTenant finds a stock lot by ID within a tenant
func (r *GormStockLotRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.StockLot, error) {
	var lot inventory.StockLot
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByIDForUpdate loads the lot under a FOR UPDATE row lock. Must be
// called inside a transaction.
func (r *GormStockLotRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*inventory.StockLot, error) {
	var lot inventory.StockLot
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenantScope(tenantID)).
		First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByBatch finds the lot for a product at a branch with the given batch number
func (r *GormStockLotRepository) FindByBatch(ctx context.Context, tenantID, productID, branchID uuid.UUID, batchNumber string) (*inventory.StockLot, error) {
	var lot inventory.StockLot
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("product_id = ? AND branch_id = ? AND batch_number = ?", productID, branchID, batchNumber).
		First(&lot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindFirstAvailable returns a lot for the product at the branch,
// preferring earliest expiry.
func (r *GormStockLotRepository) FindFirstAvailable(ctx context.Context, tenantID, productID, branchID uuid.UUID) (*inventory.StockLot, error) {
	var lot inventory.StockLot
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("product_id = ? AND branch_id = ?", productID, branchID).
		Order("expiry_date ASC NULLS LAST, created_at ASC").
		First(&lot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FirstOrCreate returns the existing lot matching tenant, product,
// branch and batch, creating it when absent.
func (r *GormStockLotRepository) FirstOrCreate(ctx context.Context, lot *inventory.StockLot) (*inventory.StockLot, error) {
	var existing inventory.StockLot
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND branch_id = ? AND batch_number = ?",
			lot.TenantID, lot.ProductID, lot.BranchID, lot.BatchNumber).
		Attrs(*lot).
		FirstOrCreate(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// Save persists a stock lot
func (r *GormStockLotRepository) Save(ctx context.Context, lot *inventory.StockLot) error {
	return r.db.WithContext(ctx).Save(lot).Error
}

// FindAllForTenant finds all stock lots matching the filter
func (r *GormStockLotRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.StockLot, error) {
	var lots []inventory.StockLot
	err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID), filterScope(filter, "batch_number"), pageScope(filter)).
		Find(&lots).Error
	return lots, err
}

// CountForTenant counts stock lots matching the filter
func (r *GormStockLotRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&inventory.StockLot{}).
		Scopes(tenantScope(tenantID), filterScope(filter, "batch_number")).
		Count(&count).Error
	return count, err
}

var _ inventory.StockLotRepository = (*GormStockLotRepository)(nil)
