package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appinventory "github.com/dawapos/backend/internal/application/inventory"
	"github.com/dawapos/backend/internal/domain/catalog"
	"github.com/dawapos/backend/internal/domain/identity"
	"github.com/dawapos/backend/internal/domain/inventory"
	"github.com/dawapos/backend/internal/domain/partner"
	"github.com/dawapos/backend/internal/domain/sales"
	"github.com/dawapos/backend/internal/domain/shared"
	"github.com/dawapos/backend/internal/domain/tax"
)

// CommissionRate is the cashier commission share of gross profit
var CommissionRate = decimal.New(15, -2)

// SaleService orchestrates sale creation: validation, per-line tax,
// payment reconciliation, persistence and inventory deduction, all
// inside one transaction.
type SaleService struct {
	scope       TransactionScope
	salesRepo   sales.SaleRepository
	products    catalog.ProductRepository
	branches    partner.BranchRepository
	customers   partner.CustomerRepository
	users       identity.UserRepository
	taxSettings tax.SettingsRepository
	ledger      *appinventory.Ledger
	logger      *zap.Logger
}

// NewSaleService creates a sale service
func NewSaleService(
	scope TransactionScope,
	salesRepo sales.SaleRepository,
	products catalog.ProductRepository,
	branches partner.BranchRepository,
	customers partner.CustomerRepository,
	users identity.UserRepository,
	taxSettings tax.SettingsRepository,
	ledger *appinventory.Ledger,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		scope:       scope,
		salesRepo:   salesRepo,
		products:    products,
		branches:    branches,
		customers:   customers,
		users:       users,
		taxSettings: taxSettings,
		ledger:      ledger,
		logger:      logger,
	}
}

// Create records a new sale. Everything it writes (header, line items,
// payments, stock decrement, movement rows) commits atomically; any
// validation failure rolls back the whole operation.
func (s *SaleService) Create(ctx context.Context, tenantID, cashierID uuid.UUID, req *CreateSaleRequest) (*SaleResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrMissingTenant
	}

	branch, err := s.branches.FindByIDForTenant(ctx, tenantID, req.BranchID)
	if err != nil {
		return nil, err
	}
	if !branch.IsActive {
		return nil, shared.NewDomainErrorf("INVALID_STATE", "branch %s is not active", branch.Code)
	}
	cashier, err := s.users.FindByIDForTenant(ctx, tenantID, cashierID)
	if err != nil {
		return nil, err
	}

	var customer *partner.Customer
	if req.CustomerID != nil {
		customer, err = s.customers.FindByIDForTenant(ctx, tenantID, *req.CustomerID)
		if err != nil {
			return nil, err
		}
	}
	if req.IsCreditSale && customer == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "a credit sale requires a registered customer")
	}

	settings, err := s.taxSettings.GetOrCreateForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	productByID := make(map[uuid.UUID]*catalog.Product, len(req.LineItems))
	for _, line := range req.LineItems {
		if _, ok := productByID[line.ProductID]; ok {
			continue
		}
		product, err := s.products.FindByIDForTenant(ctx, tenantID, line.ProductID)
		if err != nil {
			return nil, err
		}
		// TODO: enforce prescription capture for RequiresPrescription
		// products once the dispensing records land.
		productByID[line.ProductID] = product
	}

	var response *SaleResponse
	err = s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		saleNumber, err := repos.Numbers.NextSaleNumber(ctx, tenantID)
		if err != nil {
			return err
		}

		sale := sales.NewSale(tenantID, branch.ID, cashier.ID, saleNumber)
		sale.CustomerID = req.CustomerID
		sale.CustomerName = req.CustomerName
		sale.CustomerPhone = req.CustomerPhone
		sale.IsCreditSale = req.IsCreditSale
		sale.Notes = req.Notes

		for _, line := range req.LineItems {
			item, err := s.buildLineItem(ctx, repos, tenantID, branch.ID, productByID[line.ProductID], settings, line)
			if err != nil {
				return err
			}
			sale.AddLineItem(item)
		}

		for _, p := range req.Payments {
			sale.AddPayment(&sales.SalePayment{
				BaseEntity:      shared.NewBaseEntity(),
				Method:          sales.PaymentMethod(p.PaymentMethod),
				Amount:          decimal.NewFromFloat(p.Amount),
				ReferenceNumber: p.ReferenceNumber,
				Notes:           p.Notes,
			})
		}

		if err := sale.ValidatePayments(); err != nil {
			return err
		}
		if err := sale.Complete(); err != nil {
			return err
		}

		// Header, then line items, then payments; the repository
		// persists associations in dependency order.
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}

		for i := range sale.LineItems {
			li := &sale.LineItems[i]
			if _, err := s.ledger.Deduct(ctx, repos.Stock, appinventory.MovementInput{
				TenantID:     tenantID,
				LotID:        li.StockLotID,
				Quantity:     li.Quantity,
				MovementType: inventory.MovementTypeSale,
				SourceRef:    sale.SaleNumber,
				SourceType:   inventory.SourceTypeSale,
				PerformedBy:  &cashier.ID,
				Notes:        "sale " + sale.SaleNumber,
			}); err != nil {
				return err
			}
		}

		if sale.IsCreditSale && customer != nil {
			outstanding := sale.TotalAmount.Sub(sale.PaymentsTotal())
			if outstanding.IsPositive() {
				if err := customer.AddCredit(outstanding); err != nil {
					return err
				}
				if err := repos.Customers.Save(ctx, customer); err != nil {
					return err
				}
			}
		}

		response = ToSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("sale_number", response.SaleNumber),
		zap.String("branch_id", branch.ID.String()),
		zap.Float64("total", response.TotalAmount),
		zap.Int("line_items", len(response.LineItems)),
	)
	return response, nil
}

// buildLineItem resolves the stock lot, checks availability and runs
// the per-line tax pipeline: tax on the pre-discount price, then the
// discount applied to net with proportional tax adjustment.
func (s *SaleService) buildLineItem(
	ctx context.Context,
	repos Repositories,
	tenantID, branchID uuid.UUID,
	product *catalog.Product,
	settings *tax.Settings,
	line CreateSaleLineItemRequest,
) (*sales.SaleLineItem, error) {
	lot, err := repos.Stock.Lots.FindByIDForTenant(ctx, tenantID, line.StockLotID)
	if err != nil {
		return nil, err
	}
	if lot.ProductID != product.ID {
		return nil, shared.NewDomainErrorf("INVALID_INPUT",
			"stock lot %s does not hold product %s", lot.ID, product.SKU)
	}
	if lot.BranchID != branchID {
		return nil, shared.NewDomainErrorf("INVALID_INPUT",
			"stock lot %s belongs to a different branch", lot.ID)
	}

	quantity := decimal.NewFromFloat(line.Quantity)
	if !lot.CanFulfil(quantity) {
		return nil, shared.NewDomainErrorf("INSUFFICIENT_STOCK",
			"insufficient stock for %s batch %q: available %s, requested %s",
			product.Name, lot.BatchNumber, lot.Quantity.String(), quantity.String())
	}

	unitPrice := decimal.NewFromFloat(line.UnitPrice)
	base := tax.Calculate(product.TaxClassification, product.TaxRateOverride, settings, quantity, unitPrice)

	discount := decimal.NewFromFloat(line.DiscountAmount)
	if discount.IsZero() && line.DiscountPercentage > 0 {
		discount = base.NetAmount.Mul(decimal.NewFromFloat(line.DiscountPercentage)).Div(decimal.NewFromInt(100)).Round(2)
	}
	discounted := tax.ApplyDiscount(base, discount)

	item := &sales.SaleLineItem{
		BaseEntity:         shared.NewBaseEntity(),
		ProductID:          product.ID,
		StockLotID:         lot.ID,
		BatchNumber:        lot.BatchNumber,
		ExpiryDate:         lot.ExpiryDate,
		Quantity:           quantity,
		UnitPrice:          unitPrice,
		UnitCost:           lot.UnitCost,
		DiscountPercentage: decimal.NewFromFloat(line.DiscountPercentage),
		Notes:              line.Notes,
	}
	item.ApplyCalculations(base, discounted)
	return item, nil
}

// GetByID loads one sale with line items and payments
func (s *SaleService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SaleResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrMissingTenant
	}
	sale, err := s.salesRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToSaleResponse(sale), nil
}

// List returns sales for a tenant, paginated
func (s *SaleService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[SaleResponse], error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrMissingTenant
	}
	found, err := s.salesRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.salesRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]SaleResponse, 0, len(found))
	for i := range found {
		items = append(items, *ToSaleResponse(&found[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// CashierCommission computes the commission for a cashier's completed
// sales in a period: 15% of the gross profit on quantities that were
// not returned. Computed on read, never stored.
func (s *SaleService) CashierCommission(ctx context.Context, tenantID, cashierID uuid.UUID, from, to time.Time) (*CommissionResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrMissingTenant
	}
	found, err := s.salesRepo.FindByCashier(ctx, tenantID, cashierID, from, to)
	if err != nil {
		return nil, err
	}

	profit := decimal.Zero
	count := 0
	for i := range found {
		sale := &found[i]
		if sale.Status != sales.StatusCompleted {
			continue
		}
		count++
		for j := range sale.LineItems {
			li := &sale.LineItems[j]
			margin := li.UnitPrice.Sub(li.UnitCost)
			if margin.IsNegative() {
				continue
			}
			profit = profit.Add(margin.Mul(li.Quantity.Sub(li.ReturnedQuantity)))
		}
	}

	commission := profit.Mul(CommissionRate).Round(2)
	return &CommissionResponse{
		CashierID:      cashierID,
		From:           from,
		To:             to,
		SalesCount:     count,
		GrossProfit:    profit.Round(2).InexactFloat64(),
		CommissionRate: CommissionRate.InexactFloat64(),
		Commission:     commission.InexactFloat64(),
	}, nil
}
