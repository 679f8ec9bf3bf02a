package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dawapos/backend/internal/domain/sales"
	"github.com/dawapos/backend/internal/domain/shared"
)

// GormSaleReturnRepository implements SaleReturnRepository using GORM
type GormSaleReturnRepository struct {
	db *gorm.DB
}

// NewGormSaleReturnRepository creates a new GormSaleReturnRepository
func NewGormSaleReturnRepository(db *gorm.DB) *GormSaleReturnRepository {
	return &GormSaleReturnRepository{db: db}
}

// Create persists the return header together with its line items
func (r *GormSaleReturnRepository) Create(ctx context.Context, saleReturn *sales.SaleReturn) error {
	return r.db.WithContext(ctx).Create(saleReturn).Error
}

// FindByIDForTenant finds a return with its line items
func (r *GormSaleReturnRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.SaleReturn, error) {
	var saleReturn sales.SaleReturn
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Preload("LineItems").
		First(&saleReturn, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &saleReturn, nil
}

// FindBySale finds all returns raised against a sale
func (r *GormSaleReturnRepository) FindBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]sales.SaleReturn, error) {
	var returns []sales.SaleReturn
	err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("sale_id = ?", saleID).
		Preload("LineItems").
		Order("created_at ASC").
		Find(&returns).Error
	return returns, err
}

// SumReturnedQuantityByLineItems aggregates already-returned quantities
// per original line item across all prior returns in one query.
func (r *GormSaleReturnRepository) SumReturnedQuantityByLineItems(ctx context.Context, tenantID uuid.UUID, lineItemIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	result := make(map[uuid.UUID]decimal.Decimal, len(lineItemIDs))
	if len(lineItemIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		SaleLineItemID uuid.UUID
		Total          decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&sales.SaleReturnLineItem{}).
		Select("sale_line_item_id, SUM(quantity_returned) AS total").
		Where("tenant_id = ? AND sale_line_item_id IN ?", tenantID, lineItemIDs).
		Group("sale_line_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.SaleLineItemID] = row.Total
	}
	return result, nil
}

var _ sales.SaleReturnRepository = (*GormSaleReturnRepository)(nil)
