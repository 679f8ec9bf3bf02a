package tax

import (
	"context"

	"github.com/google/uuid"
)

// SettingsRepository provides access to tenant tax settings
type SettingsRepository interface {
	// GetOrCreateForTenant returns the tenant's settings, creating the
	// default record if none exists yet.
	GetOrCreateForTenant(ctx context.Context, tenantID uuid.UUID) (*Settings, error)
	Save(ctx context.Context, settings *Settings) error
}
