package sales

import (
	"context"

	appinventory "github.com/dawapos/backend/internal/application/inventory"
	"github.com/dawapos/backend/internal/domain/partner"
	"github.com/dawapos/backend/internal/domain/sales"
)

// Repositories bundles everything the sale, return and edit flows write
// within one transaction.
type Repositories struct {
	Sales        sales.SaleRepository
	Returns      sales.SaleReturnRepository
	EditRequests sales.EditRequestRepository
	Customers    partner.CustomerRepository
	Numbers      sales.NumberGenerator
	Stock        appinventory.Repositories
}

// TransactionScope executes a function with repositories bound to a
// single database transaction. If fn returns an error every write in
// the scope rolls back; partial persistence is never observable.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// NoOpTransactionScope runs fn directly against the given repositories
// without transaction semantics. Intended for tests.
type NoOpTransactionScope struct {
	Repos Repositories
}

// Execute implements TransactionScope
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return fn(ctx, s.Repos)
}
