package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dawapos/backend/internal/domain/shared"
)

// SaleReturn is one return transaction against an original sale.
// Several returns may accumulate against the same sale; validation of a
// new return always sums all prior return lines, never the header copy.
type SaleReturn struct {
	shared.TenantAggregateRoot
	ReturnNumber string          `gorm:"type:varchar(32);not null;index"`
	SaleID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleNumber   string          `gorm:"type:varchar(32);not null"`
	Reason       string          `gorm:"type:text;not null"`
	Notes        string          `gorm:"type:text"`
	TotalRefund  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ProcessedBy  uuid.UUID       `gorm:"type:uuid;not null"`

	LineItems []SaleReturnLineItem `gorm:"foreignKey:SaleReturnID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name
func (SaleReturn) TableName() string {
	return "sale_returns"
}

// NewSaleReturn creates a return header for the given sale
func NewSaleReturn(sale *Sale, returnNumber, reason string, processedBy uuid.UUID) (*SaleReturn, error) {
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "return reason is required")
	}
	return &SaleReturn{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(sale.TenantID, processedBy),
		ReturnNumber:        returnNumber,
		SaleID:              sale.ID,
		SaleNumber:          sale.SaleNumber,
		Reason:              reason,
		TotalRefund:         decimal.Zero,
		ProcessedBy:         processedBy,
	}, nil
}

// AddLine appends a return line and accumulates the refund total.
// Refund = unitPrice * quantityReturned, rounded to 2 decimals.
func (r *SaleReturn) AddLine(original *SaleLineItem, quantity, unitPrice decimal.Decimal, restoreToInventory bool, notes string) (*SaleReturnLineItem, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "returned quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "unit price cannot be negative")
	}

	refund := unitPrice.Mul(quantity).Round(2)
	line := SaleReturnLineItem{
		BaseEntity:         shared.NewBaseEntity(),
		TenantID:           r.TenantID,
		SaleReturnID:       r.ID,
		SaleLineItemID:     original.ID,
		ProductID:          original.ProductID,
		QuantityReturned:   quantity,
		UnitPrice:          unitPrice,
		RefundAmount:       refund,
		RestoreToInventory: restoreToInventory,
		Notes:              notes,
	}
	r.LineItems = append(r.LineItems, line)
	r.TotalRefund = r.TotalRefund.Add(refund)
	return &r.LineItems[len(r.LineItems)-1], nil
}

// SaleReturnLineItem is one returned position, referencing the original
// sale line item.
type SaleReturnLineItem struct {
	shared.BaseEntity
	TenantID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleReturnID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleLineItemID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null"`
	QuantityReturned   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	RefundAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	RestoreToInventory bool            `gorm:"not null;default:true"`
	Notes              string          `gorm:"type:text"`
}

// TableName returns the database table name
func (SaleReturnLineItem) TableName() string {
	return "sale_return_line_items"
}
