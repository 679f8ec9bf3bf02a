package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dawapos/backend/internal/domain/inventory"
	"github.com/dawapos/backend/internal/domain/shared"
)

// StockService handles stock intake, manual adjustments and listing.
// The sale and return flows do not go through this service; they drive
// the Ledger inside their own transactions.
type StockService struct {
	scope     TransactionScope
	ledger    *Ledger
	lots      inventory.StockLotRepository
	movements inventory.MovementRepository
	logger    *zap.Logger
}

// NewStockService creates a stock service
func NewStockService(
	scope TransactionScope,
	ledger *Ledger,
	lots inventory.StockLotRepository,
	movements inventory.MovementRepository,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		scope:     scope,
		ledger:    ledger,
		lots:      lots,
		movements: movements,
		logger:    logger,
	}
}

// Receive books purchase stock into a lot, creating the lot on first
// receipt of a batch. Purchase receiving shares the movement schema
// with sales and returns so provenance stays traceable end to end.
func (s *StockService) Receive(ctx context.Context, tenantID, userID uuid.UUID, req *ReceiveStockRequest) (*StockLotResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrMissingTenant
	}

	var response *StockLotResponse
	err := s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		lot := inventory.NewStockLot(tenantID, req.ProductID, req.BranchID, req.BatchNumber, req.ExpiryDate)
		lot, err := repos.Lots.FirstOrCreate(ctx, lot)
		if err != nil {
			return err
		}

		if req.UnitCost > 0 {
			lot.UnitCost = decimal.NewFromFloat(req.UnitCost)
		}
		if req.SellingPrice > 0 {
			lot.SellingPrice = decimal.NewFromFloat(req.SellingPrice)
		}
		if err := repos.Lots.Save(ctx, lot); err != nil {
			return err
		}

		if _, err := s.ledger.Restore(ctx, repos, MovementInput{
			TenantID:     tenantID,
			LotID:        lot.ID,
			Quantity:     decimal.NewFromFloat(req.Quantity),
			MovementType: inventory.MovementTypePurchase,
			SourceRef:    req.Reference,
			SourceType:   inventory.SourceTypePurchaseOrder,
			PerformedBy:  &userID,
			Notes:        req.Notes,
		}); err != nil {
			return err
		}

		fresh, err := repos.Lots.FindByIDForTenant(ctx, tenantID, lot.ID)
		if err != nil {
			return err
		}
		response = ToStockLotResponse(fresh)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock received",
		zap.String("tenant_id", tenantID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.String("reference", req.Reference),
		zap.Float64("quantity", req.Quantity),
	)
	return response, nil
}

// Adjust applies a signed manual correction to a lot. Negative deltas
// go through the deducting path and therefore cannot take the lot
// below zero and cannot reuse a reference that already moved the lot.
func (s *StockService) Adjust(ctx context.Context, tenantID, userID uuid.UUID, req *AdjustStockRequest) (*MovementResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrMissingTenant
	}
	delta := decimal.NewFromFloat(req.Delta)
	if delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "adjustment delta cannot be zero")
	}

	var response *MovementResponse
	err := s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		in := MovementInput{
			TenantID:     tenantID,
			LotID:        req.StockLotID,
			MovementType: inventory.MovementTypeAdjustment,
			SourceRef:    req.Reference,
			SourceType:   inventory.SourceTypeManual,
			PerformedBy:  &userID,
			Notes:        req.Notes,
		}

		var movement *inventory.Movement
		var err error
		if delta.IsPositive() {
			in.Quantity = delta
			movement, err = s.ledger.Restore(ctx, repos, in)
		} else {
			in.Quantity = delta.Neg()
			movement, err = s.ledger.Deduct(ctx, repos, in)
		}
		if err != nil {
			return err
		}
		response = ToMovementResponse(movement)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// ListLots returns stock lots for a tenant, paginated
func (s *StockService) ListLots(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[StockLotResponse], error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrMissingTenant
	}
	lots, err := s.lots.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.lots.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]StockLotResponse, 0, len(lots))
	for i := range lots {
		items = append(items, *ToStockLotResponse(&lots[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListMovements returns the movement audit trail for a tenant, paginated
func (s *StockService) ListMovements(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[MovementResponse], error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrMissingTenant
	}
	movements, err := s.movements.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.movements.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		items = append(items, *ToMovementResponse(&movements[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}
