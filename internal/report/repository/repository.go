package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tair/grocery-pos/internal/report/domain"
	"github.com/tair/grocery-pos/pkg/database"
)

// GormReportRepository aggregates over the sales and inventory tables
type GormReportRepository struct {
	db *gorm.DB
}

func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

func inPeriod(q *gorm.DB, column string, p domain.Period) *gorm.DB {
	if !p.From.IsZero() {
		q = q.Where(column+" >= ?", p.From)
	}
	if !p.To.IsZero() {
		q = q.Where(column+" < ?", p.To)
	}
	return q
}

func (r *GormReportRepository) SalesSummary(ctx context.Context, p domain.Period) (*domain.SalesSummary, error) {
	var row struct {
		Completed int64
		Subtotal  decimal.Decimal
		Tax       decimal.Decimal
		Discount  decimal.Decimal
		Revenue   decimal.Decimal
	}
	q := inPeriod(database.Conn(ctx, r.db).Table("sales"), "created_at", p).
		Where("status = ?", "completed").
		Select("COUNT(*) AS completed, " +
			"COALESCE(SUM(subtotal), 0) AS subtotal, " +
			"COALESCE(SUM(tax_amount), 0) AS tax, " +
			"COALESCE(SUM(discount_amount), 0) AS discount, " +
			"COALESCE(SUM(total_amount), 0) AS revenue")
	if err := q.Scan(&row).Error; err != nil {
		return nil, fmt.Errorf("summarize sales: %w", err)
	}

	var cancelled int64
	err := inPeriod(database.Conn(ctx, r.db).Table("sales"), "created_at", p).
		Where("status = ?", "cancelled").
		Count(&cancelled).Error
	if err != nil {
		return nil, fmt.Errorf("count cancelled sales: %w", err)
	}

	summary := &domain.SalesSummary{
		Period:         p,
		CompletedSales: row.Completed,
		CancelledSales: cancelled,
		Subtotal:       row.Subtotal.Round(2),
		Tax:            row.Tax.Round(2),
		Discount:       row.Discount.Round(2),
		Revenue:        row.Revenue.Round(2),
		AverageSale:    decimal.Zero,
	}
	if row.Completed > 0 {
		summary.AverageSale = summary.Revenue.Div(decimal.NewFromInt(row.Completed)).Round(2)
	}
	return summary, nil
}

func (r *GormReportRepository) TopProducts(ctx context.Context, p domain.Period, limit int) ([]domain.ProductSales, error) {
	var rows []domain.ProductSales
	q := database.Conn(ctx, r.db).Table("sale_items").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Where("sales.status = ?", "completed")
	err := inPeriod(q, "sales.created_at", p).
		Select("sale_items.product_id AS product_id, products.name AS product_name, " +
			"SUM(sale_items.quantity) AS quantity, COALESCE(SUM(sale_items.subtotal), 0) AS revenue").
		Group("sale_items.product_id, products.name").
		Order("quantity DESC, revenue DESC, product_id").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("rank products: %w", err)
	}
	for i := range rows {
		rows[i].Revenue = rows[i].Revenue.Round(2)
	}
	return rows, nil
}

func (r *GormReportRepository) InventoryValuation(ctx context.Context) (*domain.InventoryValuation, error) {
	var v domain.InventoryValuation
	err := database.Conn(ctx, r.db).Table("inventories").
		Joins("JOIN products ON products.id = inventories.product_id").
		Select("COUNT(*) AS products, " +
			"COALESCE(SUM(inventories.quantity), 0) AS units, " +
			"COALESCE(SUM(inventories.quantity * products.cost), 0) AS cost_value, " +
			"COALESCE(SUM(inventories.quantity * products.price), 0) AS retail_value, " +
			"COALESCE(SUM(CASE WHEN inventories.quantity <= inventories.min_stock_level THEN 1 ELSE 0 END), 0) AS low_stock_count").
		Scan(&v).Error
	if err != nil {
		return nil, fmt.Errorf("value inventory: %w", err)
	}
	v.CostValue = v.CostValue.Round(2)
	v.RetailValue = v.RetailValue.Round(2)
	return &v, nil
}

// SaleRows returns sales in creation order; an empty status means all
func (r *GormReportRepository) SaleRows(ctx context.Context, p domain.Period, status string) ([]domain.SaleRow, error) {
	q := inPeriod(database.Conn(ctx, r.db).Table("sales"), "created_at", p)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var rows []domain.SaleRow
	err := q.Select("id, receipt_number, created_at, user_id, customer_id, payment_method, payment_status, " +
		"status, subtotal, tax_amount, discount_amount, total_amount").
		Order("created_at, id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	return rows, nil
}
