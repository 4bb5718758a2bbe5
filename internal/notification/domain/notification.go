package domain

import (
	"context"
	"time"
)

// Notification types
const (
	TypeLowStock   = "low_stock"
	TypeNearExpiry = "near_expiry"
	TypeExpired    = "expired"
	TypeSystem     = "system"
)

// Notification is an in-app message addressed to one user
type Notification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index:idx_notifications_user_read,priority:1" json:"user_id"`
	Type      string     `gorm:"size:20;not null" json:"type"`
	Title     string     `gorm:"size:200;not null" json:"title"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	ProductID *uint      `gorm:"index" json:"product_id,omitempty"`
	IsRead    bool       `gorm:"not null;default:false;index:idx_notifications_user_read,priority:2" json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationRepository persists notifications. Every owner scoped method
// treats a row of another user as missing.
type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []Notification) error
	FindByID(ctx context.Context, id, userID uint) (*Notification, error)
	ListByUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]Notification, int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, id, userID uint, at time.Time) error
	MarkAllRead(ctx context.Context, userID uint, at time.Time) (int64, error)
	Delete(ctx context.Context, id, userID uint) error
}

// RecipientFinder lists the users that receive stock alerts
type RecipientFinder interface {
	ActiveStockRecipients(ctx context.Context) ([]uint, error)
}
