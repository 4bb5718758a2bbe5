package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/tair/grocery-pos/internal/product/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/database"
)

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Product{})
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := database.Conn(ctx, r.db).Create(product).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return apperror.Conflict("barcode %s already exists", product.Barcode)
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	err := database.Conn(ctx, r.db).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("product %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return &product, nil
}

func (r *GormProductRepository) FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	var product domain.Product
	err := database.Conn(ctx, r.db).Where("barcode = ?", barcode).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("product with barcode %s not found", barcode)
	}
	if err != nil {
		return nil, fmt.Errorf("find product by barcode: %w", err)
	}
	return &product, nil
}

func (r *GormProductRepository) List(ctx context.Context, filter domain.Filter) ([]domain.Product, int64, error) {
	q := database.Conn(ctx, r.db).Model(&domain.Product{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR barcode LIKE ?", like, like)
	}
	if filter.Active != nil {
		q = q.Where("is_active = ?", *filter.Active)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	var products []domain.Product
	err := q.Order("name ASC").Limit(filter.Limit).Offset(filter.Offset).Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

func (r *GormProductRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := database.Conn(ctx, r.db).Model(&domain.Product{}).
		Where("category <> ''").
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *GormProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if err := database.Conn(ctx, r.db).Save(product).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return apperror.Conflict("barcode %s already exists", product.Barcode)
		}
		return fmt.Errorf("update product %d: %w", product.ID, err)
	}
	return nil
}

func (r *GormProductRepository) HasSales(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Table("sale_items").Where("product_id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count sale items for product %d: %w", id, err)
	}
	return count > 0, nil
}

// Delete must run inside a transaction; callers use database.Transactor.
func (r *GormProductRepository) Delete(ctx context.Context, id uint) error {
	tx := database.Conn(ctx, r.db)

	inventoryIDs := tx.Table("inventories").Select("id").Where("product_id = ?", id)
	if err := tx.Exec("DELETE FROM inventory_transactions WHERE inventory_id IN (?)", inventoryIDs).Error; err != nil {
		return fmt.Errorf("delete ledger for product %d: %w", id, err)
	}
	if err := tx.Exec("DELETE FROM inventories WHERE product_id = ?", id).Error; err != nil {
		return fmt.Errorf("delete inventory for product %d: %w", id, err)
	}

	res := tx.Delete(&domain.Product{}, id)
	if res.Error != nil {
		if database.IsForeignKeyViolation(res.Error) {
			return apperror.Conflict("product %d is still referenced", id)
		}
		return fmt.Errorf("delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("product %d not found", id)
	}
	return nil
}
