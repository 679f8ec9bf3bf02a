package partner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dawapos/backend/internal/domain/shared"
)

// Customer is a known buyer. Walk-in sales may instead carry a free-text
// name/phone on the sale itself.
type Customer struct {
	shared.TenantAggregateRoot
	Name               string          `gorm:"type:varchar(255);not null"`
	Phone              string          `gorm:"type:varchar(32);index"`
	Email              string          `gorm:"type:varchar(255)"`
	CreditLimit        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	OutstandingBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	IsActive           bool            `gorm:"not null;default:true"`
}

// TableName returns the database table name
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(tenantID uuid.UUID, name, phone string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "customer name is required")
	}
	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Phone:               phone,
		CreditLimit:         decimal.Zero,
		OutstandingBalance:  decimal.Zero,
		IsActive:            true,
	}, nil
}

// AddCredit increases the customer's outstanding balance for a credit sale
func (c *Customer) AddCredit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "credit amount cannot be negative")
	}
	c.OutstandingBalance = c.OutstandingBalance.Add(amount)
	return nil
}
