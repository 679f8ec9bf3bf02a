package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appinventory "github.com/dawapos/backend/internal/application/inventory"
	"github.com/dawapos/backend/internal/domain/inventory"
	"github.com/dawapos/backend/internal/domain/sales"
	"github.com/dawapos/backend/internal/domain/shared"
)

type returnFixture struct {
	svc       *SaleReturnService
	salesRepo *MockSaleRepository
	returns   *MockSaleReturnRepository
	numbers   *MockNumberGenerator
	lots      *MockStockLotRepository
	movements *MockMovementRepository

	tenantID uuid.UUID
	sale     *sales.Sale
	line     *sales.SaleLineItem
	lot      *inventory.StockLot
}

// newReturnFixture builds a completed sale of 10 units at 100 each from
// one stock lot, ready to be returned against.
func newReturnFixture(t *testing.T) *returnFixture {
	t.Helper()
	tenantID := uuid.New()
	branchID := uuid.New()
	productID := uuid.New()

	lot := inventory.NewStockLot(tenantID, productID, branchID, "BT-001", nil)
	lot.Quantity = decimal.NewFromInt(0)

	sale := sales.NewSale(tenantID, branchID, uuid.New(), "SAL-1-000001")
	sale.AddLineItem(&sales.SaleLineItem{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		StockLotID: lot.ID,
		Quantity:   decimal.NewFromInt(10),
		UnitPrice:  decimal.NewFromInt(100),
		NetAmount:  decimal.NewFromInt(1000),
		TaxAmount:  decimal.NewFromInt(160),
		LineTotal:  decimal.NewFromInt(1160),
	})
	require.NoError(t, sale.Complete())

	f := &returnFixture{
		salesRepo: new(MockSaleRepository),
		returns:   new(MockSaleReturnRepository),
		numbers:   new(MockNumberGenerator),
		lots:      new(MockStockLotRepository),
		movements: new(MockMovementRepository),
		tenantID:  tenantID,
		sale:      sale,
		line:      &sale.LineItems[0],
		lot:       lot,
	}
	scope := &NoOpTransactionScope{Repos: Repositories{
		Sales:   f.salesRepo,
		Returns: f.returns,
		Numbers: f.numbers,
		Stock:   appinventory.Repositories{Lots: f.lots, Movements: f.movements},
	}}
	f.svc = NewSaleReturnService(scope, f.returns, appinventory.NewLedger(zap.NewNop()), zap.NewNop())
	return f
}

func (f *returnFixture) expectReturnedSoFar(ctx context.Context, quantity int64) {
	returned := map[uuid.UUID]decimal.Decimal{}
	if quantity > 0 {
		returned[f.line.ID] = decimal.NewFromInt(quantity)
	}
	f.returns.On("SumReturnedQuantityByLineItems", ctx, f.tenantID, []uuid.UUID{f.line.ID}).Return(returned, nil)
}

func TestSaleReturnService_Create(t *testing.T) {
	f := newReturnFixture(t)
	ctx := context.Background()
	processedBy := uuid.New()

	f.salesRepo.On("FindByIDForUpdate", ctx, f.tenantID, f.sale.ID).Return(f.sale, nil)
	f.expectReturnedSoFar(ctx, 0)
	f.numbers.On("NextReturnNumber", ctx, f.tenantID).Return("RET-1-000001", nil)
	f.returns.On("Create", ctx, mock.AnythingOfType("*sales.SaleReturn")).Return(nil)
	f.lots.On("FindByIDForTenant", ctx, f.tenantID, f.lot.ID).Return(f.lot, nil)
	f.lots.On("FindByIDForUpdate", ctx, f.tenantID, f.lot.ID).Return(f.lot, nil)
	f.lots.On("Save", ctx, f.lot).Return(nil)
	f.movements.On("Create", ctx, mock.AnythingOfType("*inventory.Movement")).Return(nil)
	f.salesRepo.On("SaveLineItem", ctx, mock.AnythingOfType("*sales.SaleLineItem")).Return(nil)
	f.salesRepo.On("Save", ctx, f.sale).Return(nil)

	resp, err := f.svc.Create(ctx, f.tenantID, f.sale.ID, processedBy, &CreateSaleReturnRequest{
		Reason: "damaged packaging",
		LineItems: []CreateSaleReturnLineRequest{{
			SaleLineItemID:     f.line.ID,
			Quantity:           4,
			RestoreToInventory: true,
		}},
	})

	require.NoError(t, err)
	assert.Equal(t, "RET-1-000001", resp.ReturnNumber)
	assert.Equal(t, 400.0, resp.TotalRefund, "refund at original unit price")
	assert.True(t, f.lot.Quantity.Equal(decimal.NewFromInt(4)), "stock restored")
	assert.True(t, f.line.ReturnedQuantity.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, sales.ReturnStatusPartial, f.sale.ReturnStatus)
	f.returns.AssertExpectations(t)
	f.movements.AssertExpectations(t)
}

func TestSaleReturnService_CreateRejectsOverReturnAcrossReturns(t *testing.T) {
	f := newReturnFixture(t)
	ctx := context.Background()

	f.line.ReturnedQuantity = decimal.NewFromInt(6)
	f.sale.RecomputeReturnStatus()

	f.salesRepo.On("FindByIDForUpdate", ctx, f.tenantID, f.sale.ID).Return(f.sale, nil)
	f.expectReturnedSoFar(ctx, 6)
	f.numbers.On("NextReturnNumber", ctx, f.tenantID).Return("RET-1-000002", nil)

	_, err := f.svc.Create(ctx, f.tenantID, f.sale.ID, uuid.New(), &CreateSaleReturnRequest{
		Reason: "changed mind",
		LineItems: []CreateSaleReturnLineRequest{{
			SaleLineItemID: f.line.ID,
			Quantity:       5,
		}},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrReturnExceedsSold))
	f.returns.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSaleReturnService_CreateRejectsOverReturnWithinRequest(t *testing.T) {
	f := newReturnFixture(t)
	ctx := context.Background()

	f.salesRepo.On("FindByIDForUpdate", ctx, f.tenantID, f.sale.ID).Return(f.sale, nil)
	f.returns.On("SumReturnedQuantityByLineItems", ctx, f.tenantID, []uuid.UUID{f.line.ID, f.line.ID}).
		Return(map[uuid.UUID]decimal.Decimal{}, nil)
	f.numbers.On("NextReturnNumber", ctx, f.tenantID).Return("RET-1-000003", nil)

	_, err := f.svc.Create(ctx, f.tenantID, f.sale.ID, uuid.New(), &CreateSaleReturnRequest{
		Reason: "split lines",
		LineItems: []CreateSaleReturnLineRequest{
			{SaleLineItemID: f.line.ID, Quantity: 6},
			{SaleLineItemID: f.line.ID, Quantity: 5},
		},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrReturnExceedsSold))
}

func TestSaleReturnService_CreateFullReturn(t *testing.T) {
	f := newReturnFixture(t)
	ctx := context.Background()

	f.salesRepo.On("FindByIDForUpdate", ctx, f.tenantID, f.sale.ID).Return(f.sale, nil)
	f.expectReturnedSoFar(ctx, 0)
	f.numbers.On("NextReturnNumber", ctx, f.tenantID).Return("RET-1-000004", nil)
	f.returns.On("Create", ctx, mock.AnythingOfType("*sales.SaleReturn")).Return(nil)
	f.salesRepo.On("SaveLineItem", ctx, mock.AnythingOfType("*sales.SaleLineItem")).Return(nil)
	f.salesRepo.On("Save", ctx, f.sale).Return(nil)

	resp, err := f.svc.Create(ctx, f.tenantID, f.sale.ID, uuid.New(), &CreateSaleReturnRequest{
		Reason: "full refund",
		LineItems: []CreateSaleReturnLineRequest{{
			SaleLineItemID:     f.line.ID,
			Quantity:           10,
			RestoreToInventory: false,
		}},
	})

	require.NoError(t, err)
	assert.Equal(t, 1000.0, resp.TotalRefund)
	assert.Equal(t, sales.ReturnStatusFull, f.sale.ReturnStatus)
	assert.False(t, f.sale.CanBeReturned(), "fully returned sale accepts no further returns")
	f.lots.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything, mock.Anything)
	f.movements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSaleReturnService_CreateRestoresToSubstituteLot(t *testing.T) {
	f := newReturnFixture(t)
	ctx := context.Background()

	substitute := inventory.NewStockLot(f.tenantID, f.line.ProductID, f.sale.BranchID, "BT-002", nil)

	f.salesRepo.On("FindByIDForUpdate", ctx, f.tenantID, f.sale.ID).Return(f.sale, nil)
	f.expectReturnedSoFar(ctx, 0)
	f.numbers.On("NextReturnNumber", ctx, f.tenantID).Return("RET-1-000005", nil)
	f.returns.On("Create", ctx, mock.AnythingOfType("*sales.SaleReturn")).Return(nil)
	f.lots.On("FindByIDForTenant", ctx, f.tenantID, f.lot.ID).Return(nil, shared.ErrNotFound)
	f.lots.On("FindByBatch", ctx, f.tenantID, f.line.ProductID, f.sale.BranchID, "BT-001").Return(nil, shared.ErrNotFound)
	f.lots.On("FindFirstAvailable", ctx, f.tenantID, f.line.ProductID, f.sale.BranchID).Return(substitute, nil)
	f.lots.On("FindByIDForUpdate", ctx, f.tenantID, substitute.ID).Return(substitute, nil)
	f.lots.On("Save", ctx, substitute).Return(nil)
	f.movements.On("Create", ctx, mock.AnythingOfType("*inventory.Movement")).Return(nil)
	f.salesRepo.On("SaveLineItem", ctx, mock.AnythingOfType("*sales.SaleLineItem")).Return(nil)
	f.salesRepo.On("Save", ctx, f.sale).Return(nil)

	_, err := f.svc.Create(ctx, f.tenantID, f.sale.ID, uuid.New(), &CreateSaleReturnRequest{
		Reason: "original batch archived",
		LineItems: []CreateSaleReturnLineRequest{{
			SaleLineItemID:     f.line.ID,
			Quantity:           2,
			RestoreToInventory: true,
		}},
	})

	require.NoError(t, err)
	assert.True(t, substitute.Quantity.Equal(decimal.NewFromInt(2)))
}

func TestSaleReturnService_CreateSkipsRestoreWhenNoLotExists(t *testing.T) {
	f := newReturnFixture(t)
	ctx := context.Background()

	f.salesRepo.On("FindByIDForUpdate", ctx, f.tenantID, f.sale.ID).Return(f.sale, nil)
	f.expectReturnedSoFar(ctx, 0)
	f.numbers.On("NextReturnNumber", ctx, f.tenantID).Return("RET-1-000006", nil)
	f.returns.On("Create", ctx, mock.AnythingOfType("*sales.SaleReturn")).Return(nil)
	f.lots.On("FindByIDForTenant", ctx, f.tenantID, f.lot.ID).Return(nil, shared.ErrNotFound)
	f.lots.On("FindByBatch", ctx, f.tenantID, f.line.ProductID, f.sale.BranchID, "BT-001").Return(nil, shared.ErrNotFound)
	f.lots.On("FindFirstAvailable", ctx, f.tenantID, f.line.ProductID, f.sale.BranchID).Return(nil, shared.ErrNotFound)
	f.salesRepo.On("SaveLineItem", ctx, mock.AnythingOfType("*sales.SaleLineItem")).Return(nil)
	f.salesRepo.On("Save", ctx, f.sale).Return(nil)

	resp, err := f.svc.Create(ctx, f.tenantID, f.sale.ID, uuid.New(), &CreateSaleReturnRequest{
		Reason: "no stock left anywhere",
		LineItems: []CreateSaleReturnLineRequest{{
			SaleLineItemID:     f.line.ID,
			Quantity:           1,
			RestoreToInventory: true,
		}},
	})

	require.NoError(t, err, "return succeeds even when restore has nowhere to go")
	assert.Equal(t, 100.0, resp.TotalRefund)
	f.movements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSaleReturnService_CreateRejectsPendingSale(t *testing.T) {
	f := newReturnFixture(t)
	ctx := context.Background()
	pending := sales.NewSale(f.tenantID, f.sale.BranchID, uuid.New(), "SAL-1-000099")

	f.salesRepo.On("FindByIDForUpdate", ctx, f.tenantID, pending.ID).Return(pending, nil)

	_, err := f.svc.Create(ctx, f.tenantID, pending.ID, uuid.New(), &CreateSaleReturnRequest{
		Reason:    "not completed",
		LineItems: []CreateSaleReturnLineRequest{{SaleLineItemID: uuid.New(), Quantity: 1}},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
}
