package sales

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appinventory "github.com/dawapos/backend/internal/application/inventory"
	"github.com/dawapos/backend/internal/domain/catalog"
	"github.com/dawapos/backend/internal/domain/identity"
	"github.com/dawapos/backend/internal/domain/inventory"
	"github.com/dawapos/backend/internal/domain/sales"
	"github.com/dawapos/backend/internal/domain/shared"
	"github.com/dawapos/backend/internal/domain/tax"
)

// EditRequestService implements the maker-checker flow for mutating
// completed sales. Anyone may raise a request; only managers and admins
// decide them, and the sale is only touched on approval.
type EditRequestService struct {
	scope       TransactionScope
	salesRepo   sales.SaleRepository
	requests    sales.EditRequestRepository
	products    catalog.ProductRepository
	users       identity.UserRepository
	taxSettings tax.SettingsRepository
	ledger      *appinventory.Ledger
	logger      *zap.Logger
}

// NewEditRequestService creates an edit request service
func NewEditRequestService(
	scope TransactionScope,
	salesRepo sales.SaleRepository,
	requests sales.EditRequestRepository,
	products catalog.ProductRepository,
	users identity.UserRepository,
	taxSettings tax.SettingsRepository,
	ledger *appinventory.Ledger,
	logger *zap.Logger,
) *EditRequestService {
	return &EditRequestService{
		scope:       scope,
		salesRepo:   salesRepo,
		requests:    requests,
		products:    products,
		users:       users,
		taxSettings: taxSettings,
		ledger:      ledger,
		logger:      logger,
	}
}

// Create raises a pending edit request against a completed sale
func (s *EditRequestService) Create(ctx context.Context, tenantID, requestedBy uuid.UUID, req *CreateEditRequestRequest) (*EditRequestResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrMissingTenant
	}

	sale, err := s.salesRepo.FindByIDForTenant(ctx, tenantID, req.SaleID)
	if err != nil {
		return nil, err
	}

	var newPrice *decimal.Decimal
	if req.NewUnitPrice != nil {
		p := decimal.NewFromFloat(*req.NewUnitPrice)
		newPrice = &p
	}

	er, err := sales.NewEditRequest(sale, req.SaleLineItemID, sales.EditRequestType(req.RequestType), newPrice, req.Reason, requestedBy)
	if err != nil {
		return nil, err
	}
	if err := s.requests.Create(ctx, er); err != nil {
		return nil, err
	}

	s.logger.Info("sale edit request raised",
		zap.String("tenant_id", tenantID.String()),
		zap.String("sale_number", sale.SaleNumber),
		zap.String("request_type", req.RequestType),
		zap.String("requested_by", requestedBy.String()),
	)
	return ToEditRequestResponse(er), nil
}

// Decide approves or rejects a pending edit request. Approval applies
// the edit to the sale inside the same transaction that records the
// decision; the sale header is locked while the edit is applied.
func (s *EditRequestService) Decide(ctx context.Context, tenantID, deciderID, requestID uuid.UUID, req *DecideEditRequestRequest) (*EditRequestResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrMissingTenant
	}

	decider, err := s.users.FindByIDForTenant(ctx, tenantID, deciderID)
	if err != nil {
		return nil, err
	}
	if !decider.Role.CanApproveEdits() {
		return nil, shared.NewDomainErrorf("FORBIDDEN", "role %s cannot decide sale edit requests", decider.Role)
	}

	settings, err := s.taxSettings.GetOrCreateForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var response *EditRequestResponse
	err = s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		er, err := repos.EditRequests.FindByIDForTenant(ctx, tenantID, requestID)
		if err != nil {
			return err
		}

		if !*req.Approved {
			if err := er.Reject(deciderID, req.RejectionReason); err != nil {
				return err
			}
			if err := repos.EditRequests.Save(ctx, er); err != nil {
				return err
			}
			response = ToEditRequestResponse(er)
			return nil
		}

		if err := er.Approve(deciderID); err != nil {
			return err
		}

		sale, err := repos.Sales.FindByIDForUpdate(ctx, tenantID, er.SaleID)
		if err != nil {
			return err
		}

		switch er.Type {
		case sales.EditRequestTypePriceChange:
			err = s.applyPriceChange(ctx, repos, sale, er, settings)
		case sales.EditRequestTypeLineDelete:
			err = s.applyLineDelete(ctx, repos, sale, er, deciderID)
		default:
			err = shared.NewDomainErrorf("INVALID_INPUT", "invalid edit request type: %s", er.Type)
		}
		if err != nil {
			return err
		}

		if err := repos.Sales.Save(ctx, sale); err != nil {
			return err
		}
		if err := repos.EditRequests.Save(ctx, er); err != nil {
			return err
		}
		response = ToEditRequestResponse(er)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale edit request decided",
		zap.String("tenant_id", tenantID.String()),
		zap.String("request_id", requestID.String()),
		zap.String("status", response.Status),
		zap.String("decided_by", deciderID.String()),
	)
	return response, nil
}

// applyPriceChange rewrites the line's unit price and reruns the full
// tax pipeline with the line's stored discount, so the header invariant
// stays exact instead of drifting on a naive price * quantity update.
func (s *EditRequestService) applyPriceChange(ctx context.Context, repos Repositories, sale *sales.Sale, er *sales.EditRequest, settings *tax.Settings) error {
	li, err := sale.GetLineItem(er.SaleLineItemID)
	if err != nil {
		return err
	}
	product, err := s.products.FindByIDForTenant(ctx, sale.TenantID, li.ProductID)
	if err != nil {
		return err
	}

	li.UnitPrice = *er.NewUnitPrice
	base := tax.Calculate(product.TaxClassification, product.TaxRateOverride, settings, li.Quantity, li.UnitPrice)
	discount := li.DiscountAmount
	if discount.IsZero() && li.DiscountPercentage.IsPositive() {
		discount = base.NetAmount.Mul(li.DiscountPercentage).Div(decimal.NewFromInt(100)).Round(2)
	}
	li.ApplyCalculations(base, tax.ApplyDiscount(base, discount))

	if err := repos.Sales.SaveLineItem(ctx, li); err != nil {
		return err
	}
	sale.RecalculateTotals()
	return nil
}

// applyLineDelete removes the line from the sale and restores its
// unreturned quantity to inventory. Quantity already returned went back
// through the return flow and must not restore twice.
func (s *EditRequestService) applyLineDelete(ctx context.Context, repos Repositories, sale *sales.Sale, er *sales.EditRequest, deciderID uuid.UUID) error {
	li, err := sale.GetLineItem(er.SaleLineItemID)
	if err != nil {
		return err
	}

	remaining := li.RemainingQuantity()
	if remaining.IsPositive() {
		_, err = s.ledger.Restore(ctx, repos.Stock, appinventory.MovementInput{
			TenantID:     sale.TenantID,
			LotID:        li.StockLotID,
			Quantity:     remaining,
			MovementType: inventory.MovementTypeReturn,
			SourceRef:    sale.SaleNumber,
			SourceType:   inventory.SourceTypeSaleEdit,
			PerformedBy:  &deciderID,
			Notes:        "line removed from sale " + sale.SaleNumber,
		})
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return err
			}
			s.logger.Warn("stock lot gone, skipping restore for deleted line",
				zap.String("sale_number", sale.SaleNumber),
				zap.String("lot_id", li.StockLotID.String()),
			)
		}
	}

	if err := repos.Sales.DeleteLineItem(ctx, sale.TenantID, li.ID); err != nil {
		return err
	}
	return sale.RemoveLineItem(er.SaleLineItemID)
}

// GetByID loads one edit request
func (s *EditRequestService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*EditRequestResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrMissingTenant
	}
	er, err := s.requests.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToEditRequestResponse(er), nil
}

// List returns edit requests for a tenant, paginated
func (s *EditRequestService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[EditRequestResponse], error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrMissingTenant
	}
	found, err := s.requests.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.requests.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]EditRequestResponse, 0, len(found))
	for i := range found {
		items = append(items, *ToEditRequestResponse(&found[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}
