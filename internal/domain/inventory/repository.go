package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/dawapos/backend/internal/domain/shared"
)

// StockLotRepository provides access to stock lots
type StockLotRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockLot, error)
	// FindByIDForUpdate loads the lot under a row lock so the
	// check-then-decrement of concurrent sales serializes.
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*StockLot, error)
	FindByBatch(ctx context.Context, tenantID, productID, branchID uuid.UUID, batchNumber string) (*StockLot, error)
	// FindFirstAvailable returns any lot for the product at the branch,
	// preferring earliest expiry. Used as the fallback when a return has
	// no batch match.
	FindFirstAvailable(ctx context.Context, tenantID, productID, branchID uuid.UUID) (*StockLot, error)
	FirstOrCreate(ctx context.Context, lot *StockLot) (*StockLot, error)
	Save(ctx context.Context, lot *StockLot) error
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockLot, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// MovementRepository provides access to the append-only stock movement log
type MovementRepository interface {
	Create(ctx context.Context, movement *Movement) error
	// ExistsBySource reports whether a movement already exists for the
	// given source document and lot. Callers treat true as an
	// idempotency conflict.
	ExistsBySource(ctx context.Context, tenantID uuid.UUID, sourceRef string, sourceType SourceType, lotID uuid.UUID) (bool, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Movement, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
