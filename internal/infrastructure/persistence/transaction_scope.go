package persistence

import (
	"context"

	"gorm.io/gorm"

	appinventory "github.com/dawapos/backend/internal/application/inventory"
	appsales "github.com/dawapos/backend/internal/application/sales"
)

// GormStockTransactionScope implements the inventory TransactionScope
// using GORM transactions.
type GormStockTransactionScope struct {
	db *gorm.DB
}

// NewGormStockTransactionScope creates a new GormStockTransactionScope
func NewGormStockTransactionScope(db *gorm.DB) *GormStockTransactionScope {
	return &GormStockTransactionScope{db: db}
}

// Execute runs fn with inventory repositories bound to one transaction
func (s *GormStockTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context, repos appinventory.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, stockRepositories(tx))
	})
}

// GormSalesTransactionScope implements the sales TransactionScope using
// GORM transactions. The stock repositories it hands out are bound to
// the same transaction, so a failed sale rolls back its deductions.
type GormSalesTransactionScope struct {
	db *gorm.DB
}

// NewGormSalesTransactionScope creates a new GormSalesTransactionScope
func NewGormSalesTransactionScope(db *gorm.DB) *GormSalesTransactionScope {
	return &GormSalesTransactionScope{db: db}
}

// Execute runs fn with sales repositories bound to one transaction
func (s *GormSalesTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context, repos appsales.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := appsales.Repositories{
			Sales:        NewGormSaleRepository(tx),
			Returns:      NewGormSaleReturnRepository(tx),
			EditRequests: NewGormEditRequestRepository(tx),
			Customers:    NewGormCustomerRepository(tx),
			Numbers:      NewGormNumberGenerator(tx),
			Stock:        stockRepositories(tx),
		}
		return fn(ctx, repos)
	})
}

func stockRepositories(tx *gorm.DB) appinventory.Repositories {
	return appinventory.Repositories{
		Lots:      NewGormStockLotRepository(tx),
		Movements: NewGormMovementRepository(tx),
	}
}

var (
	_ appinventory.TransactionScope = (*GormStockTransactionScope)(nil)
	_ appsales.TransactionScope     = (*GormSalesTransactionScope)(nil)
)
