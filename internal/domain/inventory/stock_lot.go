package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dawapos/backend/internal/domain/shared"
)

// StockLot is a specific batch of a product at a branch, carrying its
// own quantity, cost and expiry. Lots are never deleted when quantity
// reaches zero; the row stays for audit continuity.
type StockLot struct {
	shared.TenantAggregateRoot
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_lots_product_branch"`
	BranchID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_lots_product_branch"`
	BatchNumber  string          `gorm:"type:varchar(64);not null;default:''"`
	ExpiryDate   *time.Time      `gorm:"index"`
	Quantity     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the database table name
func (StockLot) TableName() string {
	return "stock_lots"
}

// NewStockLot creates a new stock lot
func NewStockLot(tenantID, productID, branchID uuid.UUID, batchNumber string, expiry *time.Time) *StockLot {
	return &StockLot{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		BranchID:            branchID,
		BatchNumber:         batchNumber,
		ExpiryDate:          expiry,
		Quantity:            decimal.Zero,
		UnitCost:            decimal.Zero,
		SellingPrice:        decimal.Zero,
	}
}

// CanFulfil reports whether the lot holds at least the requested quantity
func (l *StockLot) CanFulfil(quantity decimal.Decimal) bool {
	return l.Quantity.GreaterThanOrEqual(quantity)
}

// Deduct removes quantity from the lot. The quantity must be positive
// and must not take the lot below zero.
func (l *StockLot) Deduct(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_INPUT", "deduction quantity must be positive")
	}
	if !l.CanFulfil(quantity) {
		return shared.NewDomainErrorf("INSUFFICIENT_STOCK",
			"insufficient stock for batch %q: available %s, requested %s",
			l.BatchNumber, l.Quantity.String(), quantity.String())
	}
	l.Quantity = l.Quantity.Sub(quantity)
	return nil
}

// Restore adds quantity back to the lot. There is no upper bound check;
// restoring is assumed safe.
func (l *StockLot) Restore(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_INPUT", "restore quantity must be positive")
	}
	l.Quantity = l.Quantity.Add(quantity)
	return nil
}

// IsExpired reports whether the lot has passed its expiry date
func (l *StockLot) IsExpired(at time.Time) bool {
	return l.ExpiryDate != nil && l.ExpiryDate.Before(at)
}
