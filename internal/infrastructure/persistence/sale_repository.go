package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dawapos/backend/internal/domain/sales"
	"github.com/dawapos/backend/internal/domain/shared"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Create persists the sale header together with its line items and payments
func (r *GormSaleRepository) Create(ctx context.Context, sale *sales.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

// Save persists header changes only. Line items are written through
// SaveLineItem so a partial in-memory slice can never clobber rows.
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(sale).Error
}

// FindByIDForTenant finds a sale with line items and payments
func (r *GormSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Preload("LineItems").
		Preload("Payments").
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByIDForUpdate loads the sale under a FOR UPDATE row lock on the
// header. Must be called inside a transaction.
func (r *GormSaleRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenantScope(tenantID)).
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	// Associations load outside the locking clause; the header lock
	// already serializes writers.
	if err := r.db.WithContext(ctx).
		Where("sale_id = ?", sale.ID).
		Order("created_at ASC").
		Find(&sale.LineItems).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("sale_id = ?", sale.ID).
		Find(&sale.Payments).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// FindAllForTenant finds all sales matching the filter
func (r *GormSaleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	var result []sales.Sale
	err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID), filterScope(filter, "sale_number", "customer_name"), pageScope(filter)).
		Preload("LineItems").
		Preload("Payments").
		Find(&result).Error
	return result, err
}

// CountForTenant counts sales matching the filter
func (r *GormSaleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&sales.Sale{}).
		Scopes(tenantScope(tenantID), filterScope(filter, "sale_number", "customer_name")).
		Count(&count).Error
	return count, err
}

// FindByCashier finds a cashier's sales in a date range, line items included
func (r *GormSaleRepository) FindByCashier(ctx context.Context, tenantID, cashierID uuid.UUID, from, to time.Time) ([]sales.Sale, error) {
	var result []sales.Sale
	err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("cashier_id = ? AND sale_date >= ? AND sale_date < ?", cashierID, from, to).
		Preload("LineItems").
		Find(&result).Error
	return result, err
}

// FindLineItem finds a single sale line item within a tenant
func (r *GormSaleRepository) FindLineItem(ctx context.Context, tenantID, lineItemID uuid.UUID) (*sales.SaleLineItem, error) {
	var item sales.SaleLineItem
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		First(&item, "id = ?", lineItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// SaveLineItem persists a single line item
func (r *GormSaleRepository) SaveLineItem(ctx context.Context, item *sales.SaleLineItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteLineItem removes a line item row
func (r *GormSaleRepository) DeleteLineItem(ctx context.Context, tenantID, lineItemID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, lineItemID).
		Delete(&sales.SaleLineItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ sales.SaleRepository = (*GormSaleRepository)(nil)
