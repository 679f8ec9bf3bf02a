package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dawapos/backend/internal/domain/shared"
)

// EditRequestType is the kind of post-hoc mutation being requested
type EditRequestType string

const (
	EditRequestTypePriceChange EditRequestType = "PRICE_CHANGE"
	EditRequestTypeLineDelete  EditRequestType = "LINE_DELETE"
)

// IsValid checks if the request type is valid
func (t EditRequestType) IsValid() bool {
	return t == EditRequestTypePriceChange || t == EditRequestTypeLineDelete
}

// EditRequestStatus is the maker-checker state
type EditRequestStatus string

const (
	EditRequestStatusPending  EditRequestStatus = "PENDING"
	EditRequestStatusApproved EditRequestStatus = "APPROVED"
	EditRequestStatusRejected EditRequestStatus = "REJECTED"
)

// EditRequest is a maker-checker record: a non-privileged user proposes
// a price change or line delete against a completed sale, and a
// privileged user decides it. PENDING is the only non-terminal state;
// a request is decided exactly once.
type EditRequest struct {
	shared.TenantAggregateRoot
	SaleID          uuid.UUID         `gorm:"type:uuid;not null;index"`
	SaleLineItemID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	Type            EditRequestType   `gorm:"type:varchar(20);not null"`
	NewUnitPrice    *decimal.Decimal  `gorm:"type:decimal(12,2)"`
	Reason          string            `gorm:"type:text;not null"`
	Status          EditRequestStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	RequestedBy     uuid.UUID         `gorm:"type:uuid;not null"`
	DecidedBy       *uuid.UUID        `gorm:"type:uuid"`
	DecidedAt       *time.Time        ``
	RejectionReason string            `gorm:"type:text"`
}

// TableName returns the database table name
func (EditRequest) TableName() string {
	return "sale_edit_requests"
}

// NewEditRequest creates a pending edit request
func NewEditRequest(sale *Sale, lineItemID uuid.UUID, requestType EditRequestType, newUnitPrice *decimal.Decimal, reason string, requestedBy uuid.UUID) (*EditRequest, error) {
	if !requestType.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_INPUT", "invalid edit request type: %s", requestType)
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "a reason is required")
	}
	if !sale.CanBeEdited() {
		return nil, shared.NewDomainErrorf("INVALID_STATE", "sale %s is not completed and cannot be edited", sale.SaleNumber)
	}
	if _, err := sale.GetLineItem(lineItemID); err != nil {
		return nil, err
	}
	if requestType == EditRequestTypePriceChange {
		if newUnitPrice == nil || !newUnitPrice.IsPositive() {
			return nil, shared.NewDomainError("INVALID_INPUT", "a positive new unit price is required for a price change")
		}
	}
	return &EditRequest{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(sale.TenantID, requestedBy),
		SaleID:              sale.ID,
		SaleLineItemID:      lineItemID,
		Type:                requestType,
		NewUnitPrice:        newUnitPrice,
		Reason:              reason,
		Status:              EditRequestStatusPending,
		RequestedBy:         requestedBy,
	}, nil
}

// IsPending reports whether the request is still undecided
func (r *EditRequest) IsPending() bool {
	return r.Status == EditRequestStatusPending
}

// Approve marks the request approved. Only a pending request may be
// decided; deciding twice fails.
func (r *EditRequest) Approve(decidedBy uuid.UUID) error {
	if !r.IsPending() {
		return shared.NewDomainErrorf("INVALID_STATE", "edit request is already %s", r.Status)
	}
	now := time.Now()
	r.Status = EditRequestStatusApproved
	r.DecidedBy = &decidedBy
	r.DecidedAt = &now
	return nil
}

// Reject marks the request rejected with a reason
func (r *EditRequest) Reject(decidedBy uuid.UUID, rejectionReason string) error {
	if !r.IsPending() {
		return shared.NewDomainErrorf("INVALID_STATE", "edit request is already %s", r.Status)
	}
	now := time.Now()
	r.Status = EditRequestStatusRejected
	r.DecidedBy = &decidedBy
	r.DecidedAt = &now
	r.RejectionReason = rejectionReason
	return nil
}
