package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dawapos/backend/internal/domain/tax"
)

// GormTaxSettingsRepository implements SettingsRepository using GORM
type GormTaxSettingsRepository struct {
	db *gorm.DB
}

// NewGormTaxSettingsRepository creates a new GormTaxSettingsRepository
func NewGormTaxSettingsRepository(db *gorm.DB) *GormTaxSettingsRepository {
	return &GormTaxSettingsRepository{db: db}
}

// GetOrCreateForTenant returns the tenant's tax settings, creating the
// default record on first access.
func (r *GormTaxSettingsRepository) GetOrCreateForTenant(ctx context.Context, tenantID uuid.UUID) (*tax.Settings, error) {
	var settings tax.Settings
	defaults := tax.NewDefaultSettings(tenantID)
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Attrs(*defaults).
		FirstOrCreate(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save persists tax settings
func (r *GormTaxSettingsRepository) Save(ctx context.Context, settings *tax.Settings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}

var _ tax.SettingsRepository = (*GormTaxSettingsRepository)(nil)
