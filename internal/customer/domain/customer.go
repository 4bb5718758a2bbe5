package domain

import (
	"context"
	"time"
)

// Customer is a registered shopper who collects loyalty points
type Customer struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:120;not null" json:"name"`
	Email         *string   `gorm:"size:120;uniqueIndex" json:"email,omitempty"`
	Phone         string    `gorm:"size:30;index" json:"phone"`
	Address       string    `gorm:"type:text" json:"address"`
	LoyaltyPoints int       `gorm:"not null;default:0" json:"loyalty_points"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id uint) (*Customer, error)
	List(ctx context.Context, search string, limit, offset int) ([]Customer, int64, error)
	Update(ctx context.Context, customer *Customer) error
	AddLoyaltyPoints(ctx context.Context, id uint, points int) error
	HasSales(ctx context.Context, id uint) (bool, error)
	Delete(ctx context.Context, id uint) error
}
