package domain

import (
	"context"
	"time"
)

// Setting is a key/value pair of store configuration
type Setting struct {
	Key         string    `gorm:"primaryKey;size:100" json:"key"`
	Value       string    `gorm:"type:text;not null" json:"value"`
	Description string    `gorm:"size:255" json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
	UpdatedBy   *uint     `json:"updated_by,omitempty"`
}

func (Setting) TableName() string {
	return "settings"
}

// Defaults are created on start when missing
var Defaults = []Setting{
	{Key: "store_name", Value: "Grocery Store", Description: "Name printed on receipts"},
	{Key: "currency", Value: "USD", Description: "ISO 4217 currency code"},
	{Key: "receipt_footer", Value: "Thank you for shopping with us!", Description: "Text printed at the bottom of receipts"},
}

type SettingRepository interface {
	List(ctx context.Context) ([]Setting, error)
	Get(ctx context.Context, key string) (*Setting, error)
	Upsert(ctx context.Context, setting *Setting) error
	CreateMissing(ctx context.Context, settings []Setting) (int64, error)
	Delete(ctx context.Context, key string) error
}
