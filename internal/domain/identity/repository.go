package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository provides access to users
type UserRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*User, error)
	Save(ctx context.Context, user *User) error
}
