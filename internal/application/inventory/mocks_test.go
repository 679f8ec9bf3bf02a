package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dawapos/backend/internal/domain/inventory"
	"github.com/dawapos/backend/internal/domain/shared"
)

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
