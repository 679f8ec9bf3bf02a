package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/dawapos/backend/internal/domain/catalog"
	"github.com/dawapos/backend/internal/domain/identity"
	"github.com/dawapos/backend/internal/domain/inventory"
	"github.com/dawapos/backend/internal/domain/partner"
	"github.com/dawapos/backend/internal/domain/sales"
	"github.com/dawapos/backend/internal/domain/shared"
	"github.com/dawapos/backend/internal/domain/tax"
)

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) Create(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) FindByCashier(ctx context.Context, tenantID, cashierID uuid.UUID, from, to time.Time) ([]sales.Sale, error) {
	args := m.Called(ctx, tenantID, cashierID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindLineItem(ctx context.Context, tenantID, lineItemID uuid.UUID) (*sales.SaleLineItem, error) {
	args := m.Called(ctx, tenantID, lineItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.SaleLineItem), args.Error(1)
}

func (m *MockSaleRepository) SaveLineItem(ctx context.Context, item *sales.SaleLineItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockSaleRepository) DeleteLineItem(ctx context.Context, tenantID, lineItemID uuid.UUID) error {
	args := m.Called(ctx, tenantID, lineItemID)
	return args.Error(0)
}

type MockSaleReturnRepository struct {
	mock.Mock
}

func (m *MockSaleReturnRepository) Create(ctx context.Context, saleReturn *sales.SaleReturn) error {
	args := m.Called(ctx, saleReturn)
	return args.Error(0)
}

func (m *MockSaleReturnRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.SaleReturn, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.SaleReturn), args.Error(1)
}

func (m *MockSaleReturnRepository) FindBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]sales.SaleReturn, error) {
	args := m.Called(ctx, tenantID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.SaleReturn), args.Error(1)
}

func (m *MockSaleReturnRepository) SumReturnedQuantityByLineItems(ctx context.Context, tenantID uuid.UUID, lineItemIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, lineItemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}

type MockEditRequestRepository struct {
	mock.Mock
}

func (m *MockEditRequestRepository) Create(ctx context.Context, request *sales.EditRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockEditRequestRepository) Save(ctx context.Context, request *sales.EditRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockEditRequestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.EditRequest, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.EditRequest), args.Error(1)
}

func (m *MockEditRequestRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.EditRequest, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.EditRequest), args.Error(1)
}

func (m *MockEditRequestRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockNumberGenerator struct {
	mock.Mock
}

func (m *MockNumberGenerator) NextSaleNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

func (m *MockNumberGenerator) NextReturnNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

type MockBranchRepository struct {
	mock.Mock
}

func (m *MockBranchRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Branch, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Branch), args.Error(1)
}

func (m *MockBranchRepository) Save(ctx context.Context, branch *partner.Branch) error {
	args := m.Called(ctx, branch)
	return args.Error(0)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.User, error) {
	args := m.Called(ctx, tenantID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

type MockTaxSettingsRepository struct {
	mock.Mock
}

func (m *MockTaxSettingsRepository) GetOrCreateForTenant(ctx context.Context, tenantID uuid.UUID) (*tax.Settings, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tax.Settings), args.Error(1)
}

func (m *MockTaxSettingsRepository) Save(ctx context.Context, settings *tax.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

type MockStockLotRepository struct {
	mock.Mock
}

func (m *MockStockLotRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.StockLot, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockLot), args.Error(1)
}

func (m *MockStockLotRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*inventory.StockLot, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockLot), args.Error(1)
}

func (m *MockStockLotRepository) FindByBatch(ctx context.Context, tenantID, productID, branchID uuid.UUID, batchNumber string) (*inventory.StockLot, error) {
	args := m.Called(ctx, tenantID, productID, branchID, batchNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockLot), args.Error(1)
}

func (m *MockStockLotRepository) FindFirstAvailable(ctx context.Context, tenantID, productID, branchID uuid.UUID) (*inventory.StockLot, error) {
	args := m.Called(ctx, tenantID, productID, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockLot), args.Error(1)
}

func (m *MockStockLotRepository) FirstOrCreate(ctx context.Context, lot *inventory.StockLot) (*inventory.StockLot, error) {
	args := m.Called(ctx, lot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockLot), args.Error(1)
}

func (m *MockStockLotRepository) Save(ctx context.Context, lot *inventory.StockLot) error {
	args := m.Called(ctx, lot)
	return args.Error(0)
}

func (m *MockStockLotRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.StockLot, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockLot), args.Error(1)
}

func (m *MockStockLotRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Create(ctx context.Context, movement *inventory.Movement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockMovementRepository) ExistsBySource(ctx context.Context, tenantID uuid.UUID, sourceRef string, sourceType inventory.SourceType, lotID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, sourceRef, sourceType, lotID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMovementRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Movement, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Movement), args.Error(1)
}

func (m *MockMovementRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}
