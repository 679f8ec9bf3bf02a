package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/dawapos/backend/internal/domain/inventory"
)

// ReceiveStockRequest books received purchase stock into a lot
type ReceiveStockRequest struct {
	ProductID    uuid.UUID  `json:"product_id" binding:"required"`
	BranchID     uuid.UUID  `json:"branch_id" binding:"required"`
	BatchNumber  string     `json:"batch_number"`
	ExpiryDate   *time.Time `json:"expiry_date"`
	Quantity     float64    `json:"quantity" binding:"required,gt=0"`
	UnitCost     float64    `json:"unit_cost" binding:"gte=0"`
	SellingPrice float64    `json:"selling_price" binding:"gte=0"`
	Reference    string     `json:"reference" binding:"required"`
	Notes        string     `json:"notes"`
}

// AdjustStockRequest corrects a lot's quantity by a signed delta
type AdjustStockRequest struct {
	StockLotID uuid.UUID `json:"stock_lot_id" binding:"required"`
	Delta      float64   `json:"delta" binding:"required"`
	Reference  string    `json:"reference" binding:"required"`
	Notes      string    `json:"notes" binding:"required"`
}

// StockLotResponse is the API shape of a stock lot
type StockLotResponse struct {
	ID           uuid.UUID  `json:"id"`
	ProductID    uuid.UUID  `json:"product_id"`
	BranchID     uuid.UUID  `json:"branch_id"`
	BatchNumber  string     `json:"batch_number"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	Quantity     float64    `json:"quantity"`
	UnitCost     float64    `json:"unit_cost"`
	SellingPrice float64    `json:"selling_price"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ToStockLotResponse converts a stock lot to its API shape
func ToStockLotResponse(lot *inventory.StockLot) *StockLotResponse {
	return &StockLotResponse{
		ID:           lot.ID,
		ProductID:    lot.ProductID,
		BranchID:     lot.BranchID,
		BatchNumber:  lot.BatchNumber,
		ExpiryDate:   lot.ExpiryDate,
		Quantity:     lot.Quantity.InexactFloat64(),
		UnitCost:     lot.UnitCost.InexactFloat64(),
		SellingPrice: lot.SellingPrice.InexactFloat64(),
		CreatedAt:    lot.CreatedAt,
		UpdatedAt:    lot.UpdatedAt,
	}
}

// MovementResponse is the API shape of a stock movement
type MovementResponse struct {
	ID              uuid.UUID  `json:"id"`
	StockLotID      uuid.UUID  `json:"stock_lot_id"`
	ProductID       uuid.UUID  `json:"product_id"`
	BranchID        uuid.UUID  `json:"branch_id"`
	Type            string     `json:"type"`
	QuantityBefore  float64    `json:"quantity_before"`
	QuantityAfter   float64    `json:"quantity_after"`
	QuantityChanged float64    `json:"quantity_changed"`
	SourceReference string     `json:"source_reference"`
	SourceType      string     `json:"source_type"`
	PerformedBy     *uuid.UUID `json:"performed_by,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToMovementResponse converts a movement to its API shape
func ToMovementResponse(m *inventory.Movement) *MovementResponse {
	return &MovementResponse{
		ID:              m.ID,
		StockLotID:      m.StockLotID,
		ProductID:       m.ProductID,
		BranchID:        m.BranchID,
		Type:            string(m.Type),
		QuantityBefore:  m.QuantityBefore.InexactFloat64(),
		QuantityAfter:   m.QuantityAfter.InexactFloat64(),
		QuantityChanged: m.QuantityChanged.InexactFloat64(),
		SourceReference: m.SourceReference,
		SourceType:      string(m.SourceType),
		PerformedBy:     m.PerformedBy,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
	}
}
