package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/grocery-pos/internal/inventory/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/database"
)

type GormInventoryRepository struct {
	db *gorm.DB
}

func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

func (r *GormInventoryRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Inventory{}, &domain.InventoryTransaction{})
}

func (r *GormInventoryRepository) Create(ctx context.Context, inventory *domain.Inventory) error {
	err := database.Conn(ctx, r.db).Omit(clause.Associations).Create(inventory).Error
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperror.Conflict("inventory for product %d already exists", inventory.ProductID)
		}
		return fmt.Errorf("create inventory: %w", err)
	}
	return nil
}

func (r *GormInventoryRepository) FindByID(ctx context.Context, id uint) (*domain.Inventory, error) {
	var inventory domain.Inventory
	err := database.Conn(ctx, r.db).Preload("Product").First(&inventory, id).Error
	return r.found(&inventory, err, "inventory %d not found", id)
}

func (r *GormInventoryRepository) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Inventory, error) {
	var inventory domain.Inventory
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&inventory, id).Error
	return r.found(&inventory, err, "inventory %d not found", id)
}

func (r *GormInventoryRepository) FindByProductID(ctx context.Context, productID uint) (*domain.Inventory, error) {
	var inventory domain.Inventory
	err := database.Conn(ctx, r.db).Preload("Product").Where("product_id = ?", productID).First(&inventory).Error
	return r.found(&inventory, err, "no inventory for product %d", productID)
}

func (r *GormInventoryRepository) found(inventory *domain.Inventory, err error, format string, args ...interface{}) (*domain.Inventory, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound(format, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("find inventory: %w", err)
	}
	return inventory, nil
}

func (r *GormInventoryRepository) List(ctx context.Context, limit, offset int) ([]domain.Inventory, int64, error) {
	var total int64
	if err := database.Conn(ctx, r.db).Model(&domain.Inventory{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count inventory: %w", err)
	}

	var inventories []domain.Inventory
	err := database.Conn(ctx, r.db).Preload("Product").
		Order("id ASC").Limit(limit).Offset(offset).
		Find(&inventories).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list inventory: %w", err)
	}
	return inventories, total, nil
}

func (r *GormInventoryRepository) ListLowStock(ctx context.Context) ([]domain.Inventory, error) {
	var inventories []domain.Inventory
	err := database.Conn(ctx, r.db).Preload("Product").
		Where("quantity <= min_stock_level").
		Order("quantity ASC").
		Find(&inventories).Error
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return inventories, nil
}

func (r *GormInventoryRepository) ListExpiringBefore(ctx context.Context, before time.Time) ([]domain.Inventory, error) {
	var inventories []domain.Inventory
	err := database.Conn(ctx, r.db).Preload("Product").
		Where("expiry_date IS NOT NULL AND expiry_date <= ?", before).
		Order("expiry_date ASC").
		Find(&inventories).Error
	if err != nil {
		return nil, fmt.Errorf("list expiring inventory: %w", err)
	}
	return inventories, nil
}

func (r *GormInventoryRepository) UpdateDetails(ctx context.Context, inventory *domain.Inventory) error {
	res := database.Conn(ctx, r.db).Model(&domain.Inventory{}).
		Where("id = ?", inventory.ID).
		Updates(map[string]interface{}{
			"min_stock_level": inventory.MinStockLevel,
			"location":        inventory.Location,
			"expiry_date":     inventory.ExpiryDate,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("update inventory %d: %w", inventory.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("inventory %d not found", inventory.ID)
	}
	return nil
}

// ApplyDelta re-checks the non-negative rule in the UPDATE itself so a
// decrement can never overdraw even if the row was not locked first.
func (r *GormInventoryRepository) ApplyDelta(ctx context.Context, id uint, delta int) (bool, error) {
	res := database.Conn(ctx, r.db).Model(&domain.Inventory{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("apply delta to inventory %d: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *GormInventoryRepository) Delete(ctx context.Context, id uint) error {
	res := database.Conn(ctx, r.db).Delete(&domain.Inventory{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete inventory %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("inventory %d not found", id)
	}
	return nil
}

func (r *GormInventoryRepository) CreateTransaction(ctx context.Context, tx *domain.InventoryTransaction) error {
	if err := database.Conn(ctx, r.db).Create(tx).Error; err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

func (r *GormInventoryRepository) ListTransactions(ctx context.Context, inventoryID uint, limit, offset int) ([]domain.InventoryTransaction, int64, error) {
	q := database.Conn(ctx, r.db).Model(&domain.InventoryTransaction{}).Where("inventory_id = ?", inventoryID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count ledger entries: %w", err)
	}

	var txs []domain.InventoryTransaction
	if err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&txs).Error; err != nil {
		return nil, 0, fmt.Errorf("list ledger entries: %w", err)
	}
	return txs, total, nil
}

func (r *GormInventoryRepository) HasSaleTransactions(ctx context.Context, inventoryID uint) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&domain.InventoryTransaction{}).
		Where("inventory_id = ? AND sale_id IS NOT NULL", inventoryID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count sale ledger entries: %w", err)
	}
	return count > 0, nil
}

func (r *GormInventoryRepository) DeleteTransactions(ctx context.Context, inventoryID uint) error {
	err := database.Conn(ctx, r.db).
		Where("inventory_id = ?", inventoryID).
		Delete(&domain.InventoryTransaction{}).Error
	if err != nil {
		return fmt.Errorf("delete ledger for inventory %d: %w", inventoryID, err)
	}
	return nil
}
