package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumReturnedQuantityByLineItems(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	repo := NewGormSaleReturnRepository(db)
	tenantID := uuid.New()
	lineA := uuid.New()
	lineB := uuid.New()
	lineC := uuid.New()

	rows := sqlmock.NewRows([]string{"sale_line_item_id", "total"}).
		AddRow(lineA, decimal.RequireFromString("3")).
		AddRow(lineB, decimal.RequireFromString("1.5"))

	mock.ExpectQuery(`SELECT sale_line_item_id, SUM\(quantity_returned\) AS total FROM "sale_return_line_items"`).
		WillReturnRows(rows)

	totals, err := repo.SumReturnedQuantityByLineItems(context.Background(), tenantID, []uuid.UUID{lineA, lineB, lineC})
	require.NoError(t, err)

	assert.True(t, totals[lineA].Equal(decimal.NewFromInt(3)))
	assert.True(t, totals[lineB].Equal(decimal.RequireFromString("1.5")))
	// Lines without returns are absent; the zero value reads as zero
	assert.True(t, totals[lineC].IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSumReturnedQuantityByLineItemsEmptyInput(t *testing.T) {
	db, _, mockDB := newMockDB(t)
	defer mockDB.Close()

	repo := NewGormSaleReturnRepository(db)
	totals, err := repo.SumReturnedQuantityByLineItems(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, totals)
}

func TestMovementExistsBySource(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	repo := NewGormMovementRepository(db)
	tenantID := uuid.New()
	lotID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "stock_movements"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsBySource(context.Background(), tenantID, "SAL-2026-000001", "SALE", lotID)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
