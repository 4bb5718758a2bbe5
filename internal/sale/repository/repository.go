package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/grocery-pos/internal/sale/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/database"
)

type GormSaleRepository struct {
	db *gorm.DB
}

func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

func (r *GormSaleRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Sale{}, &domain.SaleItem{})
}

// Create inserts the sale row only; items are written by CreateItems
func (r *GormSaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	if err := database.Conn(ctx, r.db).Omit(clause.Associations).Create(sale).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return apperror.Conflict("receipt number %s already exists", sale.ReceiptNumber)
		}
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

func (r *GormSaleRepository) CreateItems(ctx context.Context, items []domain.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := database.Conn(ctx, r.db).Omit(clause.Associations).Create(&items).Error; err != nil {
		return fmt.Errorf("create sale items: %w", err)
	}
	return nil
}

func (r *GormSaleRepository) FindByID(ctx context.Context, id uint) (*domain.Sale, error) {
	var sale domain.Sale
	err := database.Conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sale_items.id") }).
		Preload("Items.Product").
		Preload("Customer").
		First(&sale, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("sale %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find sale %d: %w", id, err)
	}
	return &sale, nil
}

// FindByIDForUpdate locks the sale row for the rest of the transaction
func (r *GormSaleRepository) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Sale, error) {
	var sale domain.Sale
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sale, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("sale %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("lock sale %d: %w", id, err)
	}

	if err := database.Conn(ctx, r.db).Where("sale_id = ?", id).Order("id").Find(&sale.Items).Error; err != nil {
		return nil, fmt.Errorf("load items of sale %d: %w", id, err)
	}
	return &sale, nil
}

func (r *GormSaleRepository) List(ctx context.Context, filter domain.Filter) ([]domain.Sale, int64, error) {
	q := database.Conn(ctx, r.db).Model(&domain.Sale{})
	if !filter.From.IsZero() {
		q = q.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("created_at < ?", filter.To)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	var sales []domain.Sale
	err := q.Preload("Items").Preload("Customer").
		Order("created_at DESC, id DESC").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&sales).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	return sales, total, nil
}

func (r *GormSaleRepository) MarkCancelled(ctx context.Context, sale *domain.Sale) error {
	res := database.Conn(ctx, r.db).Model(&domain.Sale{}).
		Where("id = ? AND status <> ?", sale.ID, domain.StatusCancelled).
		Updates(map[string]interface{}{
			"status":         sale.Status,
			"payment_status": sale.PaymentStatus,
			"cancelled_at":   sale.CancelledAt,
			"cancelled_by":   sale.CancelledBy,
			"cancel_reason":  sale.CancelReason,
		})
	if res.Error != nil {
		return fmt.Errorf("cancel sale %d: %w", sale.ID, res.Error)
	}
	if res.RowsAffected != 1 {
		return apperror.AlreadyCancelled("sale %d is already cancelled", sale.ID)
	}
	return nil
}
