package sales

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appinventory "github.com/dawapos/backend/internal/application/inventory"
	"github.com/dawapos/backend/internal/domain/inventory"
	"github.com/dawapos/backend/internal/domain/sales"
	"github.com/dawapos/backend/internal/domain/shared"
)

// SaleReturnService processes returns against completed sales. The
// original sale header is locked for the whole operation so concurrent
// returns against the same sale serialize.
type SaleReturnService struct {
	scope   TransactionScope
	returns sales.SaleReturnRepository
	ledger  *appinventory.Ledger
	logger  *zap.Logger
}

// NewSaleReturnService creates a sale return service
func NewSaleReturnService(scope TransactionScope, returns sales.SaleReturnRepository, ledger *appinventory.Ledger, logger *zap.Logger) *SaleReturnService {
	return &SaleReturnService{scope: scope, returns: returns, ledger: ledger, logger: logger}
}

// Create records a return against a sale. Per-line validation sums all
// prior return lines from the database rather than trusting the header
// copy, so two returns can never together exceed the sold quantity.
func (s *SaleReturnService) Create(ctx context.Context, tenantID, saleID, processedBy uuid.UUID, req *CreateSaleReturnRequest) (*SaleReturnResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrMissingTenant
	}

	var response *SaleReturnResponse
	err := s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		sale, err := repos.Sales.FindByIDForUpdate(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		if !sale.CanBeReturned() {
			return shared.NewDomainErrorf("INVALID_STATE",
				"sale %s cannot be returned (status %s, return status %s)",
				sale.SaleNumber, sale.Status, sale.ReturnStatus)
		}

		lineIDs := make([]uuid.UUID, 0, len(req.LineItems))
		for _, line := range req.LineItems {
			lineIDs = append(lineIDs, line.SaleLineItemID)
		}
		alreadyReturned, err := repos.Returns.SumReturnedQuantityByLineItems(ctx, tenantID, lineIDs)
		if err != nil {
			return err
		}

		returnNumber, err := repos.Numbers.NextReturnNumber(ctx, tenantID)
		if err != nil {
			return err
		}
		ret, err := sales.NewSaleReturn(sale, returnNumber, req.Reason, processedBy)
		if err != nil {
			return err
		}
		ret.Notes = req.Notes

		// Requests may split one original line across entries; track the
		// running quantity per line within this return too.
		requestedSoFar := make(map[uuid.UUID]decimal.Decimal, len(req.LineItems))

		for _, line := range req.LineItems {
			original, err := sale.GetLineItem(line.SaleLineItemID)
			if err != nil {
				return err
			}

			quantity := decimal.NewFromFloat(line.Quantity)
			prior := alreadyReturned[original.ID].Add(requestedSoFar[original.ID])
			if prior.Add(quantity).GreaterThan(original.Quantity) {
				return shared.NewDomainErrorf("RETURN_EXCEEDS_SOLD",
					"cannot return %s of line %s: %s of %s already returned",
					quantity.String(), original.ID, prior.String(), original.Quantity.String())
			}
			requestedSoFar[original.ID] = prior.Sub(alreadyReturned[original.ID]).Add(quantity)

			unitPrice := decimal.NewFromFloat(line.UnitPrice)
			if !unitPrice.IsPositive() {
				unitPrice = original.UnitPrice
			}
			if _, err := ret.AddLine(original, quantity, unitPrice, line.RestoreToInventory, line.Notes); err != nil {
				return err
			}
		}

		if err := repos.Returns.Create(ctx, ret); err != nil {
			return err
		}

		for i := range ret.LineItems {
			retLine := &ret.LineItems[i]
			original, err := sale.GetLineItem(retLine.SaleLineItemID)
			if err != nil {
				return err
			}

			if retLine.RestoreToInventory {
				if err := s.restoreLine(ctx, repos, sale, original, retLine, returnNumber, processedBy); err != nil {
					return err
				}
			}

			if err := original.AddReturnedQuantity(retLine.QuantityReturned); err != nil {
				return err
			}
			if err := repos.Sales.SaveLineItem(ctx, original); err != nil {
				return err
			}
		}

		sale.RecomputeReturnStatus()
		if err := repos.Sales.Save(ctx, sale); err != nil {
			return err
		}

		response = ToSaleReturnResponse(ret)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale return processed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("return_number", response.ReturnNumber),
		zap.String("sale_number", response.SaleNumber),
		zap.Float64("total_refund", response.TotalRefund),
	)
	return response, nil
}

// restoreLine puts returned stock back. The original lot is preferred;
// if it has been removed, the batch is matched by number, then any
// available lot of the product at the branch. When no lot exists at all
// the restore is skipped with a warning rather than failing the return.
func (s *SaleReturnService) restoreLine(
	ctx context.Context,
	repos Repositories,
	sale *sales.Sale,
	original *sales.SaleLineItem,
	retLine *sales.SaleReturnLineItem,
	returnNumber string,
	processedBy uuid.UUID,
) error {
	lotID := original.StockLotID

	lot, err := repos.Stock.Lots.FindByIDForTenant(ctx, sale.TenantID, lotID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		lot, err = repos.Stock.Lots.FindByBatch(ctx, sale.TenantID, original.ProductID, sale.BranchID, original.BatchNumber)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if lot == nil {
			lot, err = repos.Stock.Lots.FindFirstAvailable(ctx, sale.TenantID, original.ProductID, sale.BranchID)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return err
			}
		}
		if lot == nil {
			s.logger.Warn("no stock lot available to restore returned quantity",
				zap.String("tenant_id", sale.TenantID.String()),
				zap.String("return_number", returnNumber),
				zap.String("product_id", original.ProductID.String()),
				zap.String("batch_number", original.BatchNumber),
			)
			return nil
		}
		s.logger.Info("restoring returned stock to a substitute lot",
			zap.String("return_number", returnNumber),
			zap.String("lot_id", lot.ID.String()),
			zap.String("batch_number", lot.BatchNumber),
		)
	}

	_, err = s.ledger.Restore(ctx, repos.Stock, appinventory.MovementInput{
		TenantID:     sale.TenantID,
		LotID:        lot.ID,
		Quantity:     retLine.QuantityReturned,
		MovementType: inventory.MovementTypeReturn,
		SourceRef:    returnNumber,
		SourceType:   inventory.SourceTypeSaleReturn,
		PerformedBy:  &processedBy,
		Notes:        "return against sale " + sale.SaleNumber,
	})
	return err
}

// GetByID loads one return with its lines
func (s *SaleReturnService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SaleReturnResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrMissingTenant
	}
	ret, err := s.returns.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToSaleReturnResponse(ret), nil
}

// ListBySale returns all returns recorded against a sale
func (s *SaleReturnService) ListBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]SaleReturnResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrMissingTenant
	}
	found, err := s.returns.FindBySale(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	items := make([]SaleReturnResponse, 0, len(found))
	for i := range found {
		items = append(items, *ToSaleReturnResponse(&found[i]))
	}
	return items, nil
}
