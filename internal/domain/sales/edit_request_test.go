package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedSaleWithLine(t *testing.T) (*Sale, uuid.UUID) {
	t.Helper()
	sale := newTestSale(t)
	sale.AddLineItem(buildLine(t, 2, 100, 0))
	require.NoError(t, sale.Complete())
	return sale, sale.LineItems[0].ID
}

func TestNewEditRequest_PriceChange(t *testing.T) {
	sale, lineID := completedSaleWithLine(t)
	price := decimal.NewFromInt(90)

	req, err := NewEditRequest(sale, lineID, EditRequestTypePriceChange, &price, "price match", uuid.New())
	require.NoError(t, err)
	assert.Equal(t, EditRequestStatusPending, req.Status)
	assert.True(t, req.IsPending())
}

func TestNewEditRequest_Validation(t *testing.T) {
	sale, lineID := completedSaleWithLine(t)

	_, err := NewEditRequest(sale, lineID, EditRequestTypePriceChange, nil, "no price", uuid.New())
	assert.Error(t, err, "price change needs a price")

	zero := decimal.Zero
	_, err = NewEditRequest(sale, lineID, EditRequestTypePriceChange, &zero, "zero price", uuid.New())
	assert.Error(t, err, "price must be positive")

	_, err = NewEditRequest(sale, uuid.New(), EditRequestTypeLineDelete, nil, "wrong line", uuid.New())
	assert.Error(t, err, "line must belong to the sale")

	_, err = NewEditRequest(sale, lineID, EditRequestType("RENAME"), nil, "bogus", uuid.New())
	assert.Error(t, err)

	pending := newTestSale(t)
	pending.AddLineItem(buildLine(t, 1, 10, 0))
	_, err = NewEditRequest(pending, pending.LineItems[0].ID, EditRequestTypeLineDelete, nil, "not completed", uuid.New())
	assert.Error(t, err, "only completed sales can be edited")
}

func TestEditRequest_DecideOnce(t *testing.T) {
	sale, lineID := completedSaleWithLine(t)
	req, err := NewEditRequest(sale, lineID, EditRequestTypeLineDelete, nil, "wrong item scanned", uuid.New())
	require.NoError(t, err)

	admin := uuid.New()
	require.NoError(t, req.Approve(admin))
	assert.Equal(t, EditRequestStatusApproved, req.Status)
	assert.Equal(t, &admin, req.DecidedBy)
	assert.NotNil(t, req.DecidedAt)

	assert.Error(t, req.Approve(admin), "approving twice must fail")
	assert.Error(t, req.Reject(admin, "late"), "rejecting a decided request must fail")
}

func TestEditRequest_Reject(t *testing.T) {
	sale, lineID := completedSaleWithLine(t)
	req, err := NewEditRequest(sale, lineID, EditRequestTypeLineDelete, nil, "wrong item scanned", uuid.New())
	require.NoError(t, err)

	admin := uuid.New()
	require.NoError(t, req.Reject(admin, "item already dispensed"))
	assert.Equal(t, EditRequestStatusRejected, req.Status)
	assert.Equal(t, "item already dispensed", req.RejectionReason)

	assert.Error(t, req.Approve(admin))
}
