package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	customerdomain "github.com/tair/grocery-pos/internal/customer/domain"
	productdomain "github.com/tair/grocery-pos/internal/product/domain"
)

// Payment methods
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentMobile = "mobile"
	PaymentOther  = "other"
)

// Payment statuses
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Sale statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMobile, PaymentOther:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// Sale is a checkout. TotalAmount is Subtotal + TaxAmount - DiscountAmount
// and Subtotal is the sum of the item subtotals.
type Sale struct {
	ID             uint                     `gorm:"primaryKey" json:"id"`
	ReceiptNumber  string                   `gorm:"size:40;uniqueIndex;not null" json:"receipt_number"`
	CustomerID     *uint                    `gorm:"index" json:"customer_id,omitempty"`
	Customer       *customerdomain.Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	UserID         uint                     `gorm:"not null;index" json:"user_id"`
	Subtotal       decimal.Decimal          `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TaxAmount      decimal.Decimal          `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	DiscountAmount decimal.Decimal          `gorm:"type:decimal(12,2);not null" json:"discount_amount"`
	TotalAmount    decimal.Decimal          `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	PaymentMethod  string                   `gorm:"size:20;not null" json:"payment_method"`
	PaymentStatus  string                   `gorm:"size:20;not null" json:"payment_status"`
	Status         string                   `gorm:"size:20;not null;index" json:"status"`
	Notes          string                   `gorm:"type:text" json:"notes,omitempty"`
	Items          []SaleItem               `gorm:"foreignKey:SaleID" json:"items"`
	CancelledAt    *time.Time               `json:"cancelled_at,omitempty"`
	CancelledBy    *uint                    `json:"cancelled_by,omitempty"`
	CancelReason   string                   `gorm:"size:255" json:"cancel_reason,omitempty"`
	CreatedAt      time.Time                `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

func (Sale) TableName() string {
	return "sales"
}

// SaleItem is one product line of a sale. UnitPrice is frozen at sale time.
type SaleItem struct {
	ID        uint                   `gorm:"primaryKey" json:"id"`
	SaleID    uint                   `gorm:"not null;index" json:"sale_id"`
	ProductID uint                   `gorm:"not null;index" json:"product_id"`
	Product   *productdomain.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int                    `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice decimal.Decimal        `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Discount  decimal.Decimal        `gorm:"type:decimal(12,2);not null" json:"discount"`
	Subtotal  decimal.Decimal        `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}

func (SaleItem) TableName() string {
	return "sale_items"
}

// Filter narrows ListSales. Zero values are ignored.
type Filter struct {
	From       time.Time
	To         time.Time
	Status     string
	CustomerID *uint
	UserID     *uint
	Limit      int
	Offset     int
}

type SaleRepository interface {
	Create(ctx context.Context, sale *Sale) error
	CreateItems(ctx context.Context, items []SaleItem) error
	FindByID(ctx context.Context, id uint) (*Sale, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*Sale, error)
	List(ctx context.Context, filter Filter) ([]Sale, int64, error)
	MarkCancelled(ctx context.Context, sale *Sale) error
}
