package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Period is a half open time range [From, To). Zero bounds are open.
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// SalesSummary aggregates the sales of a period
type SalesSummary struct {
	Period         Period          `json:"period"`
	CompletedSales int64           `json:"completed_sales"`
	CancelledSales int64           `json:"cancelled_sales"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Tax            decimal.Decimal `json:"tax"`
	Discount       decimal.Decimal `json:"discount"`
	Revenue        decimal.Decimal `json:"revenue"`
	AverageSale    decimal.Decimal `json:"average_sale"`
}

// ProductSales is the volume of one product over completed sales
type ProductSales struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// InventoryValuation values the stock on hand
type InventoryValuation struct {
	Products      int64           `json:"products"`
	Units         int64           `json:"units"`
	CostValue     decimal.Decimal `json:"cost_value"`
	RetailValue   decimal.Decimal `json:"retail_value"`
	LowStockCount int64           `json:"low_stock_count"`
}

// DaySales totals the completed sales of one calendar day (UTC)
type DaySales struct {
	Date    string          `json:"date"`
	Sales   int64           `json:"sales"`
	Revenue decimal.Decimal `json:"revenue"`
}

// SaleRow is one line of the sales export
type SaleRow struct {
	ID             uint
	ReceiptNumber  string
	CreatedAt      time.Time
	UserID         uint
	CustomerID     *uint
	PaymentMethod  string
	PaymentStatus  string
	Status         string
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
}

type ReportRepository interface {
	SalesSummary(ctx context.Context, period Period) (*SalesSummary, error)
	TopProducts(ctx context.Context, period Period, limit int) ([]ProductSales, error)
	InventoryValuation(ctx context.Context) (*InventoryValuation, error)
	SaleRows(ctx context.Context, period Period, status string) ([]SaleRow, error)
}
