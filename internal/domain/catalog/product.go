package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dawapos/backend/internal/domain/shared"
	"github.com/dawapos/backend/internal/domain/tax"
)

// Product is a catalog item sold by a tenant. Stock is tracked per
// branch and batch on inventory.StockLot, not here.
type Product struct {
	shared.TenantAggregateRoot
	Name                 string             `gorm:"type:varchar(255);not null"`
	SKU                  string             `gorm:"type:varchar(64);not null;index"`
	Description          string             `gorm:"type:text"`
	Category             string             `gorm:"type:varchar(100);index"`
	Unit                 string             `gorm:"type:varchar(32);default:'piece'"`
	TaxClassification    tax.Classification `gorm:"type:varchar(20);not null;default:'STANDARD'"`
	TaxRateOverride      *decimal.Decimal   `gorm:"type:decimal(5,2)"`
	RequiresPrescription bool               `gorm:"not null;default:false"`
	SellingPrice         decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0"`
	ReorderLevel         decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0"`
	IsActive             bool               `gorm:"not null;default:true"`
}

// TableName returns the database table name
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(tenantID uuid.UUID, name, sku string, classification tax.Classification) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "product name is required")
	}
	if strings.TrimSpace(sku) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "product SKU is required")
	}
	if !classification.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_INPUT", "invalid tax classification: %s", classification)
	}
	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		SKU:                 sku,
		Unit:                "piece",
		TaxClassification:   classification,
		SellingPrice:        decimal.Zero,
		ReorderLevel:        decimal.Zero,
		IsActive:            true,
	}, nil
}

// Deactivate marks the product as no longer sellable
func (p *Product) Deactivate() {
	p.IsActive = false
}
