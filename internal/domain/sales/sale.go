package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dawapos/backend/internal/domain/shared"
	"github.com/dawapos/backend/internal/domain/tax"
)

// Status is the lifecycle state of a sale
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusSuspended Status = "SUSPENDED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusSuspended, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if a transition to the target status is allowed
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusCompleted || target == StatusSuspended || target == StatusCancelled
	case StatusSuspended:
		return target == StatusCompleted || target == StatusCancelled
	default:
		return false
	}
}

// ReturnStatus is the aggregate return state of a sale
type ReturnStatus string

const (
	ReturnStatusNone    ReturnStatus = "NONE"
	ReturnStatusPartial ReturnStatus = "PARTIAL"
	ReturnStatusFull    ReturnStatus = "FULL"
)

func (s ReturnStatus) rank() int {
	switch s {
	case ReturnStatusPartial:
		return 1
	case ReturnStatusFull:
		return 2
	default:
		return 0
	}
}

// PaymentTolerance is the allowed rounding gap between the sum of
// payments and the sale total for non-credit sales.
var PaymentTolerance = decimal.New(1, -2)

// Sale is a completed or in-progress POS transaction. Line items and
// payments are lifetime-bound to the header. Once COMPLETED, only the
// return and edit-request flows may mutate line items or totals.
type Sale struct {
	shared.TenantAggregateRoot
	SaleNumber     string          `gorm:"type:varchar(32);not null;index"`
	BranchID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index"`
	CustomerName   string          `gorm:"type:varchar(255)"`
	CustomerPhone  string          `gorm:"type:varchar(32)"`
	CashierID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status         Status          `gorm:"type:varchar(20);not null;default:'PENDING'"`
	ReturnStatus   ReturnStatus    `gorm:"type:varchar(20);not null;default:'NONE'"`
	IsCreditSale   bool            `gorm:"not null;default:false"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notes          string          `gorm:"type:text"`
	SaleDate       time.Time       `gorm:"not null;index"`

	LineItems []SaleLineItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Payments  []SalePayment  `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a new pending sale
func NewSale(tenantID, branchID, cashierID uuid.UUID, saleNumber string) *Sale {
	return &Sale{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, cashierID),
		SaleNumber:          saleNumber,
		BranchID:            branchID,
		CashierID:           cashierID,
		Status:              StatusPending,
		ReturnStatus:        ReturnStatusNone,
		Subtotal:            decimal.Zero,
		TaxAmount:           decimal.Zero,
		DiscountAmount:      decimal.Zero,
		TotalAmount:         decimal.Zero,
		SaleDate:            time.Now(),
	}
}

// AddLineItem appends a line item and keeps totals current
func (s *Sale) AddLineItem(item *SaleLineItem) {
	item.TenantID = s.TenantID
	item.SaleID = s.ID
	s.LineItems = append(s.LineItems, *item)
	s.RecalculateTotals()
}

// AddPayment appends a payment
func (s *Sale) AddPayment(payment *SalePayment) {
	payment.TenantID = s.TenantID
	payment.SaleID = s.ID
	s.Payments = append(s.Payments, *payment)
}

// Complete transitions the sale to COMPLETED
func (s *Sale) Complete() error {
	if !s.Status.CanTransitionTo(StatusCompleted) {
		return shared.NewDomainErrorf("INVALID_STATE", "cannot complete sale in status %s", s.Status)
	}
	s.Status = StatusCompleted
	return nil
}

// Cancel transitions the sale to CANCELLED
func (s *Sale) Cancel() error {
	if !s.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainErrorf("INVALID_STATE", "cannot cancel sale in status %s", s.Status)
	}
	s.Status = StatusCancelled
	return nil
}

// RecalculateTotals rebuilds the header amounts from the current line
// items. Subtotal is the sum of pre-discount nets and DiscountAmount the
// sum of effective line discounts, so
// total == subtotal + tax - discount holds exactly after every mutation.
func (s *Sale) RecalculateTotals() {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	discount := decimal.Zero
	for i := range s.LineItems {
		li := &s.LineItems[i]
		subtotal = subtotal.Add(li.NetAmount)
		taxTotal = taxTotal.Add(li.TaxAmount)
		discount = discount.Add(li.DiscountAmount)
	}
	s.Subtotal = subtotal
	s.TaxAmount = taxTotal
	s.DiscountAmount = discount
	s.TotalAmount = subtotal.Add(taxTotal).Sub(discount)
}

// PaymentsTotal sums all recorded payments
func (s *Sale) PaymentsTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range s.Payments {
		total = total.Add(s.Payments[i].Amount)
	}
	return total
}

// ValidatePayments reconciles payments against the sale total. Credit
// sales may be unpaid or partially paid but never overpaid; all other
// sales must be paid in full within PaymentTolerance.
func (s *Sale) ValidatePayments() error {
	for i := range s.Payments {
		if err := s.Payments[i].Validate(); err != nil {
			return err
		}
	}

	paid := s.PaymentsTotal()
	if s.IsCreditSale {
		if paid.Sub(s.TotalAmount).GreaterThan(PaymentTolerance) {
			return shared.NewDomainErrorf("PAYMENT_MISMATCH",
				"credit sale payments %s exceed total %s", paid.StringFixed(2), s.TotalAmount.StringFixed(2))
		}
		return nil
	}

	diff := paid.Sub(s.TotalAmount)
	if diff.Abs().GreaterThan(PaymentTolerance) {
		return shared.NewDomainErrorf("PAYMENT_MISMATCH",
			"payment mismatch: subtotal %s, tax %s, expected total %s, received %s, difference %s",
			s.Subtotal.StringFixed(2), s.TaxAmount.StringFixed(2),
			s.TotalAmount.StringFixed(2), paid.StringFixed(2), diff.StringFixed(2))
	}
	return nil
}

// GetLineItem finds a line item by id
func (s *Sale) GetLineItem(id uuid.UUID) (*SaleLineItem, error) {
	for i := range s.LineItems {
		if s.LineItems[i].ID == id {
			return &s.LineItems[i], nil
		}
	}
	return nil, shared.NewDomainErrorf("NOT_FOUND", "line item %s does not belong to sale %s", id, s.SaleNumber)
}

// RemoveLineItem drops a line item from the in-memory aggregate and
// recalculates totals. Persistence of the deletion is the caller's job.
func (s *Sale) RemoveLineItem(id uuid.UUID) error {
	for i := range s.LineItems {
		if s.LineItems[i].ID == id {
			s.LineItems = append(s.LineItems[:i], s.LineItems[i+1:]...)
			s.RecalculateTotals()
			return nil
		}
	}
	return shared.NewDomainErrorf("NOT_FOUND", "line item %s does not belong to sale %s", id, s.SaleNumber)
}

// RecomputeReturnStatus derives the aggregate return status from the
// complete set of line items. The status only ever moves forward
// (NONE -> PARTIAL -> FULL); there is no undo-return operation.
func (s *Sale) RecomputeReturnStatus() {
	anyReturned := false
	allReturned := len(s.LineItems) > 0
	for i := range s.LineItems {
		li := &s.LineItems[i]
		if li.ReturnedQuantity.IsPositive() {
			anyReturned = true
		}
		if li.ReturnedQuantity.LessThan(li.Quantity) {
			allReturned = false
		}
	}

	next := ReturnStatusNone
	switch {
	case anyReturned && allReturned:
		next = ReturnStatusFull
	case anyReturned:
		next = ReturnStatusPartial
	}
	if next.rank() > s.ReturnStatus.rank() {
		s.ReturnStatus = next
	}
}

// CanBeReturned reports whether new returns may be raised against the sale
func (s *Sale) CanBeReturned() bool {
	return s.Status == StatusCompleted && s.ReturnStatus != ReturnStatusFull
}

// CanBeEdited reports whether edit requests may be raised against the sale
func (s *Sale) CanBeEdited() bool {
	return s.Status == StatusCompleted
}

// SaleLineItem is one sold position. It references the exact stock lot
// it was fulfilled from so batch, expiry and cost provenance survive.
type SaleLineItem struct {
	shared.BaseEntity
	TenantID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockLotID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber        string          `gorm:"type:varchar(64)"`
	ExpiryDate         *time.Time      ``
	Quantity           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UnitCost           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TaxRate            decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	NetAmount          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TaxAmount          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	LineTotal          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ReturnedQuantity   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notes              string          `gorm:"type:text"`
}

// TableName returns the database table name
func (SaleLineItem) TableName() string {
	return "sale_line_items"
}

// ApplyCalculations stores the tax results on the line. The base
// calculation is pre-discount; the discounted one carries the
// proportionally adjusted tax. DiscountAmount is stored as the
// effective discount (base net minus discounted net), which keeps the
// header invariant exact even when the requested discount exceeded the
// line amount.
func (li *SaleLineItem) ApplyCalculations(base, discounted tax.Calculation) {
	li.TaxRate = base.Rate
	li.NetAmount = base.NetAmount
	li.DiscountAmount = base.NetAmount.Sub(discounted.NetAmount)
	li.TaxAmount = discounted.TaxAmount
	li.LineTotal = discounted.GrossAmount
}

// RemainingQuantity is the quantity not yet returned
func (li *SaleLineItem) RemainingQuantity() decimal.Decimal {
	return li.Quantity.Sub(li.ReturnedQuantity)
}

// IsFullyReturned reports whether the whole line has been returned
func (li *SaleLineItem) IsFullyReturned() bool {
	return li.ReturnedQuantity.GreaterThanOrEqual(li.Quantity)
}

// AddReturnedQuantity increments the cumulative returned quantity,
// never past the sold quantity.
func (li *SaleLineItem) AddReturnedQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_INPUT", "returned quantity must be positive")
	}
	if li.ReturnedQuantity.Add(quantity).GreaterThan(li.Quantity) {
		return shared.NewDomainErrorf("RETURN_EXCEEDS_SOLD",
			"cannot return %s: only %s of %s remaining",
			quantity.String(), li.RemainingQuantity().String(), li.Quantity.String())
	}
	li.ReturnedQuantity = li.ReturnedQuantity.Add(quantity)
	return nil
}

// PaymentMethod is how a sale (or part of it) was paid
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodMpesa        PaymentMethod = "M_PESA"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCredit       PaymentMethod = "CREDIT"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodMpesa, PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodCredit:
		return true
	}
	return false
}

// RequiresReference reports whether the method needs an external
// transaction reference (M-Pesa receipt, card slip, bank ref).
func (m PaymentMethod) RequiresReference() bool {
	switch m {
	case PaymentMethodMpesa, PaymentMethodCard, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// SalePayment is one payment applied to a sale. Split payments are
// supported; several rows may cover one sale.
type SalePayment struct {
	shared.BaseEntity
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Method          PaymentMethod   `gorm:"type:varchar(20);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ReferenceNumber string          `gorm:"type:varchar(64)"`
	Notes           string          `gorm:"type:text"`
}

// TableName returns the database table name
func (SalePayment) TableName() string {
	return "sale_payments"
}

// Validate checks the payment on its own
func (p *SalePayment) Validate() error {
	if !p.Method.IsValid() {
		return shared.NewDomainErrorf("INVALID_INPUT", "invalid payment method: %s", p.Method)
	}
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_INPUT", "payment amount must be positive")
	}
	if p.Method.RequiresReference() && p.ReferenceNumber == "" {
		return shared.NewDomainErrorf("INVALID_INPUT", "payment method %s requires a reference number", p.Method)
	}
	return nil
}
