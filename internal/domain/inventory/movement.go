package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dawapos/backend/internal/domain/shared"
)

// MovementType classifies a stock quantity change
type MovementType string

const (
	MovementTypeSale         MovementType = "SALE"
	MovementTypeReturn       MovementType = "RETURN"
	MovementTypePurchase     MovementType = "PURCHASE"
	MovementTypeAdjustment   MovementType = "ADJUSTMENT"
	MovementTypeTransferIn   MovementType = "TRANSFER_IN"
	MovementTypeTransferOut  MovementType = "TRANSFER_OUT"
	MovementTypeInitialStock MovementType = "INITIAL_STOCK"
)

// IsValid checks if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeSale, MovementTypeReturn, MovementTypePurchase, MovementTypeAdjustment,
		MovementTypeTransferIn, MovementTypeTransferOut, MovementTypeInitialStock:
		return true
	}
	return false
}

// IsIncrease reports whether this movement type adds stock
func (t MovementType) IsIncrease() bool {
	switch t {
	case MovementTypeReturn, MovementTypePurchase, MovementTypeTransferIn, MovementTypeInitialStock:
		return true
	}
	return false
}

// SourceType identifies the kind of document that caused a movement
type SourceType string

const (
	SourceTypeSale          SourceType = "SALE"
	SourceTypeSaleReturn    SourceType = "SALE_RETURN"
	SourceTypeSaleEdit      SourceType = "SALE_EDIT"
	SourceTypePurchaseOrder SourceType = "PURCHASE_ORDER"
	SourceTypeManual        SourceType = "MANUAL"
)

// IsValid checks if the source type is valid
func (t SourceType) IsValid() bool {
	switch t {
	case SourceTypeSale, SourceTypeSaleReturn, SourceTypeSaleEdit, SourceTypePurchaseOrder, SourceTypeManual:
		return true
	}
	return false
}

// Movement is one append-only audit row for a stock quantity change.
// The (tenant, source reference, source type, stock lot) combination is
// unique; that uniqueness is the idempotency guard against a retried
// request applying its deduction twice.
type Movement struct {
	shared.TenantAggregateRoot
	StockLotID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	BranchID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type            MovementType    `gorm:"type:varchar(20);not null"`
	QuantityBefore  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	QuantityAfter   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	QuantityChanged decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SourceReference string          `gorm:"type:varchar(64);not null"`
	SourceType      SourceType      `gorm:"type:varchar(20);not null"`
	PerformedBy     *uuid.UUID      `gorm:"type:uuid"`
	Notes           string          `gorm:"type:text"`
}

// TableName returns the database table name
func (Movement) TableName() string {
	return "stock_movements"
}

// NewMovement records a quantity change against a lot. QuantityChanged
// is signed; before and after are the lot balances around the change.
func NewMovement(lot *StockLot, movementType MovementType, before, after decimal.Decimal, sourceRef string, sourceType SourceType) (*Movement, error) {
	if !movementType.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_INPUT", "invalid movement type: %s", movementType)
	}
	if !sourceType.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_INPUT", "invalid source type: %s", sourceType)
	}
	if sourceRef == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "source reference is required")
	}
	return &Movement{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(lot.TenantID),
		StockLotID:          lot.ID,
		ProductID:           lot.ProductID,
		BranchID:            lot.BranchID,
		Type:                movementType,
		QuantityBefore:      before,
		QuantityAfter:       after,
		QuantityChanged:     after.Sub(before),
		SourceReference:     sourceRef,
		SourceType:          sourceType,
	}, nil
}

// WithPerformer records who performed the movement
func (m *Movement) WithPerformer(userID uuid.UUID) *Movement {
	m.PerformedBy = &userID
	return m
}

// WithNotes attaches free-text notes
func (m *Movement) WithNotes(notes string) *Movement {
	m.Notes = notes
	return m
}
