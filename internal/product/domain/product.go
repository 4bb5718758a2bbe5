package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog entry
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Cost        decimal.Decimal `json:"cost" gorm:"type:decimal(12,2);not null;default:0"`
	Category    string          `json:"category" gorm:"index"`
	Barcode     string          `json:"barcode" gorm:"uniqueIndex;not null"`
	IsActive    bool            `json:"is_active" gorm:"not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// Filter narrows ListProducts
type Filter struct {
	Category string
	Search   string
	Active   *bool
	Limit    int
	Offset   int
}

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)
	List(ctx context.Context, filter Filter) ([]Product, int64, error)
	Categories(ctx context.Context) ([]string, error)
	Update(ctx context.Context, product *Product) error
	// HasSales reports whether any sale line references the product.
	HasSales(ctx context.Context, id uint) (bool, error)
	// Delete removes the product together with its inventory row and ledger.
	Delete(ctx context.Context, id uint) error
}
