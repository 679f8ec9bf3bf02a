package inventory

import (
	"context"

	"github.com/dawapos/backend/internal/domain/inventory"
)

// Repositories bundles the repositories that participate in one stock
// transaction.
type Repositories struct {
	Lots      inventory.StockLotRepository
	Movements inventory.MovementRepository
}

// TransactionScope executes a function with repositories bound to a
// single database transaction. If fn returns an error the whole
// transaction rolls back.
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
