package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dawapos/backend/internal/domain/shared"
)

// SaleRepository provides access to sales and their line items
type SaleRepository interface {
	// Create persists the sale header together with its line items and
	// payments, in that dependency order.
	Create(ctx context.Context, sale *Sale) error
	Save(ctx context.Context, sale *Sale) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)
	// FindByIDForUpdate loads the sale with line items under a row lock
	// on the header, serializing concurrent returns and edit decisions.
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Sale, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindByCashier(ctx context.Context, tenantID, cashierID uuid.UUID, from, to time.Time) ([]Sale, error)
	FindLineItem(ctx context.Context, tenantID, lineItemID uuid.UUID) (*SaleLineItem, error)
	SaveLineItem(ctx context.Context, item *SaleLineItem) error
	DeleteLineItem(ctx context.Context, tenantID, lineItemID uuid.UUID) error
}

// SaleReturnRepository provides access to sale returns
type SaleReturnRepository interface {
	Create(ctx context.Context, saleReturn *SaleReturn) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SaleReturn, error)
	FindBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]SaleReturn, error)
	// SumReturnedQuantityByLineItems aggregates the already-returned
	// quantity per original line item across all prior returns, as one
	// set-based query. Line items with no returns are absent from the map.
	SumReturnedQuantityByLineItems(ctx context.Context, tenantID uuid.UUID, lineItemIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}

// EditRequestRepository provides access to sale edit requests
type EditRequestRepository interface {
	Create(ctx context.Context, request *EditRequest) error
	Save(ctx context.Context, request *EditRequest) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*EditRequest, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]EditRequest, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// NumberGenerator produces tenant-unique, monotonically increasing
// document numbers. Implementations must be collision-free under
// concurrent writers (an atomic database sequence, not
// read-max-then-increment).
type NumberGenerator interface {
	NextSaleNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
	NextReturnNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
