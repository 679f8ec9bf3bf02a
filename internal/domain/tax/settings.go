package tax

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dawapos/backend/internal/domain/shared"
)

// PricingMode determines whether listed prices already contain VAT
type PricingMode string

const (
	PricingModeInclusive PricingMode = "INCLUSIVE"
	PricingModeExclusive PricingMode = "EXCLUSIVE"
)

// IsValid checks if the pricing mode is valid
func (m PricingMode) IsValid() bool {
	return m == PricingModeInclusive || m == PricingModeExclusive
}

// Classification is a product's tax classification
type Classification string

const (
	ClassificationStandard  Classification = "STANDARD"
	ClassificationReduced   Classification = "REDUCED"
	ClassificationZeroRated Classification = "ZERO_RATED"
	ClassificationExempt    Classification = "EXEMPT"
)

// IsValid checks if the classification is valid
func (c Classification) IsValid() bool {
	switch c {
	case ClassificationStandard, ClassificationReduced, ClassificationZeroRated, ClassificationExempt:
		return true
	}
	return false
}

// Default VAT rates (percent) applied when a tenant or product does not override them.
var (
	DefaultStandardRate = decimal.NewFromInt(16)
	DefaultReducedRate  = decimal.NewFromInt(8)
)

// Settings holds per-tenant VAT configuration.
// Created lazily with defaults (VAT on, 16%, exclusive) on first access.
type Settings struct {
	shared.TenantAggregateRoot
	ChargeVAT   bool            `gorm:"not null;default:true"`
	DefaultRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:16"`
	PricingMode PricingMode     `gorm:"type:varchar(20);not null;default:'EXCLUSIVE'"`
}

// TableName returns the database table name
func (Settings) TableName() string {
	return "tax_settings"
}

// NewDefaultSettings creates tenant tax settings with the standard defaults
func NewDefaultSettings(tenantID uuid.UUID) *Settings {
	return &Settings{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ChargeVAT:           true,
		DefaultRate:         DefaultStandardRate,
		PricingMode:         PricingModeExclusive,
	}
}

// Update changes the tenant's VAT configuration
func (s *Settings) Update(chargeVAT bool, defaultRate decimal.Decimal, mode PricingMode) error {
	if defaultRate.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "default VAT rate cannot be negative")
	}
	if !mode.IsValid() {
		return shared.NewDomainErrorf("INVALID_INPUT", "invalid pricing mode: %s", mode)
	}
	s.ChargeVAT = chargeVAT
	s.DefaultRate = defaultRate
	s.PricingMode = mode
	return nil
}
