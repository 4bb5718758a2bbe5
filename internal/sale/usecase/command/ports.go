package command

import (
	"context"

	"github.com/shopspring/decimal"

	customerdomain "github.com/tair/grocery-pos/internal/customer/domain"
	inventorydomain "github.com/tair/grocery-pos/internal/inventory/domain"
	inventorycommand "github.com/tair/grocery-pos/internal/inventory/usecase/command"
	productdomain "github.com/tair/grocery-pos/internal/product/domain"
	"github.com/tair/grocery-pos/kafka"
)

// ProductCatalog resolves the products of a sale
type ProductCatalog interface {
	FindByID(ctx context.Context, id uint) (*productdomain.Product, error)
}

// StockLocator finds the inventory row of a product
type StockLocator interface {
	FindByProductID(ctx context.Context, productID uint) (*inventorydomain.Inventory, error)
}

// StockLedger books stock movements. It joins the transaction in ctx.
type StockLedger interface {
	Handle(ctx context.Context, cmd inventorycommand.AdjustQuantityCommand) (*inventorycommand.AdjustmentResult, error)
}

type CustomerFinder interface {
	FindByID(ctx context.Context, id uint) (*customerdomain.Customer, error)
}

// LoyaltyProgram credits and debits customer points after commit
type LoyaltyProgram interface {
	Award(ctx context.Context, customerID uint, total decimal.Decimal)
	Revoke(ctx context.Context, customerID uint, total decimal.Decimal)
}

// EventPublisher publishes sale events after commit
type EventPublisher interface {
	PublishSaleCompleted(ctx context.Context, event kafka.SaleCompletedEvent) error
	PublishSaleCancelled(ctx context.Context, event kafka.SaleCancelledEvent) error
}

// ReportCache drops cached reports that a sale change made stale
type ReportCache interface {
	Invalidate(ctx context.Context) error
}
