package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dawapos/backend/internal/domain/sales"
)

// GormNumberGenerator issues tenant-unique document numbers from the
// document_sequences table. The increment is one atomic upsert, so
// concurrent writers never draw the same value; sequences reset each
// calendar year by keying the sequence name on the year.
type GormNumberGenerator struct {
	db *gorm.DB
}

// NewGormNumberGenerator creates a new GormNumberGenerator
func NewGormNumberGenerator(db *gorm.DB) *GormNumberGenerator {
	return &GormNumberGenerator{db: db}
}

const nextSequenceSQL = `
INSERT INTO document_sequences (tenant_id, name, current_value, updated_at)
VALUES (?, ?, 1, NOW())
ON CONFLICT (tenant_id, name)
DO UPDATE SET current_value = document_sequences.current_value + 1, updated_at = NOW()
RETURNING current_value`

// NextSaleNumber returns the next sale number, e.g. SAL-2026-000042
func (g *GormNumberGenerator) NextSaleNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return g.next(ctx, tenantID, "sale", "SAL")
}

// NextReturnNumber returns the next return number, e.g. RET-2026-000007
func (g *GormNumberGenerator) NextReturnNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return g.next(ctx, tenantID, "sale_return", "RET")
}

func (g *GormNumberGenerator) next(ctx context.Context, tenantID uuid.UUID, sequence, prefix string) (string, error) {
	year := time.Now().Year()
	name := fmt.Sprintf("%s-%d", sequence, year)

	var value int64
	if err := g.db.WithContext(ctx).
		Raw(nextSequenceSQL, tenantID, name).
		Scan(&value).Error; err != nil {
		return "", fmt.Errorf("failed to advance sequence %s: %w", name, err)
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, year, value), nil
}

var _ sales.NumberGenerator = (*GormNumberGenerator)(nil)
