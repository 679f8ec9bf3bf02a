package partner

import (
	"context"

	"github.com/google/uuid"
)

// BranchRepository provides access to branches
type BranchRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Branch, error)
	Save(ctx context.Context, branch *Branch) error
}

// CustomerRepository provides access to customers
type CustomerRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)
	Save(ctx context.Context, customer *Customer) error
}
