package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dawapos/backend/internal/domain/catalog"
	"github.com/dawapos/backend/internal/domain/inventory"
	"github.com/dawapos/backend/internal/domain/shared"
	"github.com/dawapos/backend/internal/domain/tax"
)

func setupSQLiteDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&catalog.Product{}, &inventory.StockLot{})
	require.NoError(t, err)
	return db
}

func TestProductRepositoryRoundTrip(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	product, err := catalog.NewProduct(tenantID, "Paracetamol 500mg", "PARA-500", tax.ClassificationStandard)
	require.NoError(t, err)
	product.SellingPrice = decimal.NewFromInt(50)
	require.NoError(t, repo.Save(ctx, product))

	found, err := repo.FindByIDForTenant(ctx, tenantID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paracetamol 500mg", found.Name)
	assert.True(t, found.SellingPrice.Equal(decimal.NewFromInt(50)))

	bySKU, err := repo.FindBySKU(ctx, tenantID, "para-500")
	require.NoError(t, err)
	assert.Equal(t, product.ID, bySKU.ID)
}

func TestProductRepositoryTenantIsolation(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product, err := catalog.NewProduct(uuid.New(), "Amoxicillin 250mg", "AMOX-250", tax.ClassificationStandard)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, product))

	_, err = repo.FindByIDForTenant(ctx, uuid.New(), product.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestStockLotFirstOrCreate(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormStockLotRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	productID := uuid.New()
	branchID := uuid.New()

	expiry := time.Now().AddDate(1, 0, 0)
	lot := inventory.NewStockLot(tenantID, productID, branchID, "BATCH-001", &expiry)
	lot.UnitCost = decimal.NewFromInt(30)

	created, err := repo.FirstOrCreate(ctx, lot)
	require.NoError(t, err)
	assert.Equal(t, lot.ID, created.ID)

	// Same batch key resolves to the existing lot
	again := inventory.NewStockLot(tenantID, productID, branchID, "BATCH-001", nil)
	existing, err := repo.FirstOrCreate(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, created.ID, existing.ID)
	assert.True(t, existing.UnitCost.Equal(decimal.NewFromInt(30)))

	// A different batch creates a new lot
	other := inventory.NewStockLot(tenantID, productID, branchID, "BATCH-002", nil)
	fresh, err := repo.FirstOrCreate(ctx, other)
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, fresh.ID)
}

func TestStockLotFindFirstAvailablePrefersEarliestExpiry(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormStockLotRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	productID := uuid.New()
	branchID := uuid.New()

	noExpiry := inventory.NewStockLot(tenantID, productID, branchID, "NO-EXPIRY", nil)
	require.NoError(t, repo.Save(ctx, noExpiry))

	late := time.Now().AddDate(2, 0, 0)
	lateLot := inventory.NewStockLot(tenantID, productID, branchID, "LATE", &late)
	require.NoError(t, repo.Save(ctx, lateLot))

	soon := time.Now().AddDate(0, 1, 0)
	soonLot := inventory.NewStockLot(tenantID, productID, branchID, "SOON", &soon)
	require.NoError(t, repo.Save(ctx, soonLot))

	found, err := repo.FindFirstAvailable(ctx, tenantID, productID, branchID)
	require.NoError(t, err)
	assert.Equal(t, soonLot.ID, found.ID)
}
