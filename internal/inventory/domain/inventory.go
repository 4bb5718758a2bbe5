package domain

import (
	"context"
	"time"

	productdomain "github.com/tair/grocery-pos/internal/product/domain"
)

// Inventory is the stock level of one product. Quantity changes only through
// the ledger, which pairs every change with an InventoryTransaction.
type Inventory struct {
	ID            uint                   `json:"id" gorm:"primaryKey"`
	ProductID     uint                   `json:"product_id" gorm:"not null;uniqueIndex"`
	Product       *productdomain.Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity      int                    `json:"quantity" gorm:"not null;default:0;check:quantity >= 0"`
	MinStockLevel int                    `json:"min_stock_level" gorm:"not null;default:0"`
	ExpiryDate    *time.Time             `json:"expiry_date,omitempty"`
	Location      string                 `json:"location"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// TableName specifies the table name
func (Inventory) TableName() string {
	return "inventories"
}

// DefaultLocation is used when a row is stored without a location
const DefaultLocation = "store"

// IsLowStock reports whether the quantity is at or below the minimum
func (i *Inventory) IsLowStock() bool {
	return i.Quantity <= i.MinStockLevel
}

// Ledger entry types
const (
	TypeSale       = "sale"
	TypeReturn     = "return"
	TypeAdjustment = "adjustment"
	TypeRestock    = "restock"
)

// ValidTransactionType reports whether t is a known ledger entry type
func ValidTransactionType(t string) bool {
	switch t {
	case TypeSale, TypeReturn, TypeAdjustment, TypeRestock:
		return true
	}
	return false
}

// InventoryTransaction is an append-only ledger row. Quantity is the signed
// delta; NewQuantity always equals PreviousQuantity + Quantity.
type InventoryTransaction struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	InventoryID      uint      `json:"inventory_id" gorm:"not null;index"`
	UserID           uint      `json:"user_id" gorm:"not null;index"`
	Type             string    `json:"type" gorm:"size:20;not null"`
	Quantity         int       `json:"quantity" gorm:"not null"`
	PreviousQuantity int       `json:"previous_quantity" gorm:"not null"`
	NewQuantity      int       `json:"new_quantity" gorm:"not null"`
	Reason           string    `json:"reason"`
	SaleID           *uint     `json:"sale_id,omitempty" gorm:"index"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName specifies the table name
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

// InventoryRepository defines the contract for inventory data access
type InventoryRepository interface {
	Create(ctx context.Context, inventory *Inventory) error
	FindByID(ctx context.Context, id uint) (*Inventory, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uint) (*Inventory, error)
	FindByProductID(ctx context.Context, productID uint) (*Inventory, error)
	List(ctx context.Context, limit, offset int) ([]Inventory, int64, error)
	ListLowStock(ctx context.Context) ([]Inventory, error)
	ListExpiringBefore(ctx context.Context, before time.Time) ([]Inventory, error)
	// UpdateDetails writes the descriptive columns and never the quantity.
	UpdateDetails(ctx context.Context, inventory *Inventory) error
	// ApplyDelta adds delta to the quantity unless the result would be
	// negative, and reports whether the row was changed.
	ApplyDelta(ctx context.Context, id uint, delta int) (bool, error)
	Delete(ctx context.Context, id uint) error

	CreateTransaction(ctx context.Context, tx *InventoryTransaction) error
	ListTransactions(ctx context.Context, inventoryID uint, limit, offset int) ([]InventoryTransaction, int64, error)
	HasSaleTransactions(ctx context.Context, inventoryID uint) (bool, error)
	DeleteTransactions(ctx context.Context, inventoryID uint) error
}

// ProductReader resolves the product an inventory row belongs to
type ProductReader interface {
	FindByID(ctx context.Context, id uint) (*productdomain.Product, error)
}
