package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dawapos/backend/internal/domain/inventory"
	"github.com/dawapos/backend/internal/domain/shared"
)

// Ledger is the shared stock-movement primitive used by the sale,
// return and edit flows. It must be called with repositories that are
// bound to the caller's enclosing transaction, so the duplicate check,
// the decrement and the audit row commit or roll back together.
type Ledger struct {
	logger *zap.Logger
}

// NewLedger creates a stock ledger
func NewLedger(logger *zap.Logger) *Ledger {
	return &Ledger{logger: logger}
}

// MovementInput describes one stock change to apply
type MovementInput struct {
	TenantID     uuid.UUID
	LotID        uuid.UUID
	Quantity     decimal.Decimal
	MovementType inventory.MovementType
	SourceRef    string
	SourceType   inventory.SourceType
	PerformedBy  *uuid.UUID
	Notes        string
}

// Deduct removes quantity from a lot, exactly once per source document.
// It fails with DUPLICATE_MOVEMENT if a movement for (sourceRef,
// sourceType, lot) already exists, and with INSUFFICIENT_STOCK if the
// lot cannot cover the quantity. The lot row is locked before the
// floor check so concurrent sales against the same lot serialize.
func (l *Ledger) Deduct(ctx context.Context, repos Repositories, in MovementInput) (*inventory.Movement, error) {
	exists, err := repos.Movements.ExistsBySource(ctx, in.TenantID, in.SourceRef, in.SourceType, in.LotID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainErrorf("DUPLICATE_MOVEMENT",
			"stock for lot %s was already deducted by %s %s", in.LotID, in.SourceType, in.SourceRef)
	}

	lot, err := repos.Lots.FindByIDForUpdate(ctx, in.TenantID, in.LotID)
	if err != nil {
		return nil, err
	}

	before := lot.Quantity
	if err := lot.Deduct(in.Quantity); err != nil {
		return nil, err
	}
	if err := repos.Lots.Save(ctx, lot); err != nil {
		return nil, err
	}

	movement, err := inventory.NewMovement(lot, in.MovementType, before, lot.Quantity, in.SourceRef, in.SourceType)
	if err != nil {
		return nil, err
	}
	if in.PerformedBy != nil {
		movement.WithPerformer(*in.PerformedBy)
	}
	movement.WithNotes(in.Notes)
	if err := repos.Movements.Create(ctx, movement); err != nil {
		return nil, err
	}

	l.logger.Debug("stock deducted",
		zap.String("tenant_id", in.TenantID.String()),
		zap.String("lot_id", lot.ID.String()),
		zap.String("source_ref", in.SourceRef),
		zap.String("quantity", in.Quantity.String()),
		zap.String("balance", lot.Quantity.String()),
	)
	return movement, nil
}

// Restore adds quantity back to a lot. There is no upper bound and no
// duplicate guard; restoring is assumed safe.
func (l *Ledger) Restore(ctx context.Context, repos Repositories, in MovementInput) (*inventory.Movement, error) {
	lot, err := repos.Lots.FindByIDForUpdate(ctx, in.TenantID, in.LotID)
	if err != nil {
		return nil, err
	}

	before := lot.Quantity
	if err := lot.Restore(in.Quantity); err != nil {
		return nil, err
	}
	if err := repos.Lots.Save(ctx, lot); err != nil {
		return nil, err
	}

	movement, err := inventory.NewMovement(lot, in.MovementType, before, lot.Quantity, in.SourceRef, in.SourceType)
	if err != nil {
		return nil, err
	}
	if in.PerformedBy != nil {
		movement.WithPerformer(*in.PerformedBy)
	}
	movement.WithNotes(in.Notes)
	if err := repos.Movements.Create(ctx, movement); err != nil {
		return nil, err
	}

	l.logger.Debug("stock restored",
		zap.String("tenant_id", in.TenantID.String()),
		zap.String("lot_id", lot.ID.String()),
		zap.String("source_ref", in.SourceRef),
		zap.String("quantity", in.Quantity.String()),
		zap.String("balance", lot.Quantity.String()),
	)
	return movement, nil
}
