package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
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

type saleFixture struct {
	svc       *SaleService
	salesRepo *MockSaleRepository
	branches  *MockBranchRepository
	customers *MockCustomerRepository
	users     *MockUserRepository
	products  *MockProductRepository
	settings  *MockTaxSettingsRepository
	numbers   *MockNumberGenerator
	lots      *MockStockLotRepository
	movements *MockMovementRepository

	tenantID uuid.UUID
	branch   *partner.Branch
	cashier  *identity.User
	product  *catalog.Product
	lot      *inventory.StockLot
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	tenantID := uuid.New()

	branch, err := partner.NewBranch(tenantID, "Westlands", "WST")
	require.NoError(t, err)
	cashier, err := identity.NewUser(tenantID, "jdoe", "changeme1", identity.RoleCashier)
	require.NoError(t, err)
	product, err := catalog.NewProduct(tenantID, "Paracetamol 500mg", "PARA-500", tax.ClassificationStandard)
	require.NoError(t, err)

	lot := inventory.NewStockLot(tenantID, product.ID, branch.ID, "BT-001", nil)
	lot.Quantity = decimal.NewFromInt(10)
	lot.UnitCost = decimal.NewFromInt(60)

	f := &saleFixture{
		salesRepo: new(MockSaleRepository),
		branches:  new(MockBranchRepository),
		customers: new(MockCustomerRepository),
		users:     new(MockUserRepository),
		products:  new(MockProductRepository),
		settings:  new(MockTaxSettingsRepository),
		numbers:   new(MockNumberGenerator),
		lots:      new(MockStockLotRepository),
		movements: new(MockMovementRepository),
		tenantID:  tenantID,
		branch:    branch,
		cashier:   cashier,
		product:   product,
		lot:       lot,
	}

	scope := &NoOpTransactionScope{Repos: Repositories{
		Sales:        f.salesRepo,
		Returns:      new(MockSaleReturnRepository),
		EditRequests: new(MockEditRequestRepository),
		Customers:    f.customers,
		Numbers:      f.numbers,
		Stock:        appinventory.Repositories{Lots: f.lots, Movements: f.movements},
	}}
	f.svc = NewSaleService(scope, f.salesRepo, f.products, f.branches, f.customers, f.users,
		f.settings, appinventory.NewLedger(zap.NewNop()), zap.NewNop())
	return f
}

func (f *saleFixture) expectLookups(ctx context.Context) {
	f.branches.On("FindByIDForTenant", ctx, f.tenantID, f.branch.ID).Return(f.branch, nil)
	f.users.On("FindByIDForTenant", ctx, f.tenantID, f.cashier.ID).Return(f.cashier, nil)
	f.settings.On("GetOrCreateForTenant", ctx, f.tenantID).Return(tax.NewDefaultSettings(f.tenantID), nil)
	f.products.On("FindByIDForTenant", ctx, f.tenantID, f.product.ID).Return(f.product, nil)
	f.lots.On("FindByIDForTenant", ctx, f.tenantID, f.lot.ID).Return(f.lot, nil)
}

func (f *saleFixture) expectDeduction(ctx context.Context, saleNumber string) {
	f.numbers.On("NextSaleNumber", ctx, f.tenantID).Return(saleNumber, nil)
	f.salesRepo.On("Create", ctx, mock.AnythingOfType("*sales.Sale")).Return(nil)
	f.movements.On("ExistsBySource", ctx, f.tenantID, saleNumber, inventory.SourceTypeSale, f.lot.ID).Return(false, nil)
	f.lots.On("FindByIDForUpdate", ctx, f.tenantID, f.lot.ID).Return(f.lot, nil)
	f.lots.On("Save", ctx, f.lot).Return(nil)
	f.movements.On("Create", ctx, mock.AnythingOfType("*inventory.Movement")).Return(nil)
}

func TestSaleService_Create(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	f.expectLookups(ctx)
	f.expectDeduction(ctx, "SAL-1-000001")

	resp, err := f.svc.Create(ctx, f.tenantID, f.cashier.ID, &CreateSaleRequest{
		BranchID: f.branch.ID,
		LineItems: []CreateSaleLineItemRequest{{
			ProductID:  f.product.ID,
			StockLotID: f.lot.ID,
			Quantity:   2,
			UnitPrice:  100,
		}},
		Payments: []CreateSalePaymentRequest{{PaymentMethod: "CASH", Amount: 232}},
	})

	require.NoError(t, err)
	assert.Equal(t, "SAL-1-000001", resp.SaleNumber)
	assert.Equal(t, string(sales.StatusCompleted), resp.Status)
	assert.Equal(t, 200.0, resp.Subtotal)
	assert.Equal(t, 32.0, resp.TaxAmount)
	assert.Equal(t, 232.0, resp.TotalAmount)
	assert.True(t, f.lot.Quantity.Equal(decimal.NewFromInt(8)), "stock deducted")
	f.salesRepo.AssertExpectations(t)
	f.movements.AssertExpectations(t)
}

func TestSaleService_CreateWithDiscount(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	f.expectLookups(ctx)
	f.expectDeduction(ctx, "SAL-1-000002")

	resp, err := f.svc.Create(ctx, f.tenantID, f.cashier.ID, &CreateSaleRequest{
		BranchID: f.branch.ID,
		LineItems: []CreateSaleLineItemRequest{{
			ProductID:      f.product.ID,
			StockLotID:     f.lot.ID,
			Quantity:       1,
			UnitPrice:      100,
			DiscountAmount: 20,
		}},
		Payments: []CreateSalePaymentRequest{{PaymentMethod: "CASH", Amount: 92.80}},
	})

	require.NoError(t, err)
	line := resp.LineItems[0]
	assert.Equal(t, 100.0, line.NetAmount)
	assert.Equal(t, 20.0, line.DiscountAmount)
	assert.Equal(t, 12.8, line.TaxAmount)
	assert.Equal(t, 92.8, line.LineTotal)
	assert.Equal(t, 92.8, resp.TotalAmount)
}

func TestSaleService_CreatePaymentMismatch(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	f.expectLookups(ctx)
	f.numbers.On("NextSaleNumber", ctx, f.tenantID).Return("SAL-1-000003", nil)

	_, err := f.svc.Create(ctx, f.tenantID, f.cashier.ID, &CreateSaleRequest{
		BranchID: f.branch.ID,
		LineItems: []CreateSaleLineItemRequest{{
			ProductID:  f.product.ID,
			StockLotID: f.lot.ID,
			Quantity:   2,
			UnitPrice:  100,
		}},
		Payments: []CreateSalePaymentRequest{{PaymentMethod: "CASH", Amount: 200}},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrPaymentMismatch))
	assert.Contains(t, err.Error(), "232.00")
	f.salesRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.True(t, f.lot.Quantity.Equal(decimal.NewFromInt(10)), "stock untouched")
}

func TestSaleService_CreateInsufficientStock(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	f.lot.Quantity = decimal.NewFromInt(1)
	f.expectLookups(ctx)
	f.numbers.On("NextSaleNumber", ctx, f.tenantID).Return("SAL-1-000004", nil)

	_, err := f.svc.Create(ctx, f.tenantID, f.cashier.ID, &CreateSaleRequest{
		BranchID: f.branch.ID,
		LineItems: []CreateSaleLineItemRequest{{
			ProductID:  f.product.ID,
			StockLotID: f.lot.ID,
			Quantity:   2,
			UnitPrice:  100,
		}},
		Payments: []CreateSalePaymentRequest{{PaymentMethod: "CASH", Amount: 232}},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
	f.salesRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSaleService_CreateDuplicateDeduction(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	f.expectLookups(ctx)
	f.numbers.On("NextSaleNumber", ctx, f.tenantID).Return("SAL-1-000005", nil)
	f.salesRepo.On("Create", ctx, mock.AnythingOfType("*sales.Sale")).Return(nil)
	f.movements.On("ExistsBySource", ctx, f.tenantID, "SAL-1-000005", inventory.SourceTypeSale, f.lot.ID).Return(true, nil)

	_, err := f.svc.Create(ctx, f.tenantID, f.cashier.ID, &CreateSaleRequest{
		BranchID: f.branch.ID,
		LineItems: []CreateSaleLineItemRequest{{
			ProductID:  f.product.ID,
			StockLotID: f.lot.ID,
			Quantity:   1,
			UnitPrice:  100,
		}},
		Payments: []CreateSalePaymentRequest{{PaymentMethod: "CASH", Amount: 116}},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrDuplicateMovement))
}

func TestSaleService_CreateCreditSale(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	customer, err := partner.NewCustomer(f.tenantID, "Mary Wanjiku", "+254700000001")
	require.NoError(t, err)

	f.expectLookups(ctx)
	f.expectDeduction(ctx, "SAL-1-000006")
	f.customers.On("FindByIDForTenant", ctx, f.tenantID, customer.ID).Return(customer, nil)
	f.customers.On("Save", ctx, customer).Return(nil)

	resp, err := f.svc.Create(ctx, f.tenantID, f.cashier.ID, &CreateSaleRequest{
		BranchID:     f.branch.ID,
		CustomerID:   &customer.ID,
		IsCreditSale: true,
		LineItems: []CreateSaleLineItemRequest{{
			ProductID:  f.product.ID,
			StockLotID: f.lot.ID,
			Quantity:   2,
			UnitPrice:  100,
		}},
		Payments: []CreateSalePaymentRequest{{PaymentMethod: "CASH", Amount: 100}},
	})

	require.NoError(t, err)
	assert.Equal(t, 232.0, resp.TotalAmount)
	assert.True(t, customer.OutstandingBalance.Equal(decimal.NewFromInt(132)), "unpaid remainder booked as credit")
	f.customers.AssertExpectations(t)
}

func TestSaleService_CreateCreditSaleWithoutCustomer(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	f.branches.On("FindByIDForTenant", ctx, f.tenantID, f.branch.ID).Return(f.branch, nil)
	f.users.On("FindByIDForTenant", ctx, f.tenantID, f.cashier.ID).Return(f.cashier, nil)

	_, err := f.svc.Create(ctx, f.tenantID, f.cashier.ID, &CreateSaleRequest{
		BranchID:     f.branch.ID,
		IsCreditSale: true,
		LineItems: []CreateSaleLineItemRequest{{
			ProductID:  f.product.ID,
			StockLotID: f.lot.ID,
			Quantity:   1,
			UnitPrice:  100,
		}},
	})
	assert.Error(t, err)
}

func TestSaleService_CreateRequiresTenant(t *testing.T) {
	f := newSaleFixture(t)
	_, err := f.svc.Create(context.Background(), uuid.Nil, f.cashier.ID, &CreateSaleRequest{})
	assert.True(t, errors.Is(err, shared.ErrMissingTenant))
}

func TestSaleService_CashierCommission(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)

	sale := sales.NewSale(f.tenantID, f.branch.ID, f.cashier.ID, "SAL-1-000010")
	sale.LineItems = []sales.SaleLineItem{{
		Quantity:  decimal.NewFromInt(4),
		UnitPrice: decimal.NewFromInt(100),
		UnitCost:  decimal.NewFromInt(60),
	}}
	require.NoError(t, sale.Complete())

	cancelled := sales.NewSale(f.tenantID, f.branch.ID, f.cashier.ID, "SAL-1-000011")
	cancelled.LineItems = []sales.SaleLineItem{{
		Quantity:  decimal.NewFromInt(1),
		UnitPrice: decimal.NewFromInt(500),
		UnitCost:  decimal.NewFromInt(100),
	}}
	require.NoError(t, cancelled.Cancel())

	f.salesRepo.On("FindByCashier", ctx, f.tenantID, f.cashier.ID, from, to).
		Return([]sales.Sale{*sale, *cancelled}, nil)

	resp, err := f.svc.CashierCommission(ctx, f.tenantID, f.cashier.ID, from, to)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.SalesCount)
	assert.Equal(t, 160.0, resp.GrossProfit)
	assert.Equal(t, 24.0, resp.Commission)
}
