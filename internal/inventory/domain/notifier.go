package domain

import (
	"context"
	"time"
)

// ExpiryStatus classifies a dated stock row
type ExpiryStatus string

const (
	ExpiryExpired    ExpiryStatus = "expired"
	ExpiryNearExpiry ExpiryStatus = "near_expiry"
)

// LowStockAlert is raised when a decrement leaves stock at or below the minimum
type LowStockAlert struct {
	ProductID     uint   `json:"product_id"`
	ProductName   string `json:"product_name"`
	Quantity      int    `json:"quantity"`
	MinStockLevel int    `json:"min_stock_level"`
}

// ExpiryAlert is raised for expired or soon to expire stock
type ExpiryAlert struct {
	ProductID   uint         `json:"product_id"`
	ProductName string       `json:"product_name"`
	ExpiryDate  time.Time    `json:"expiry_date"`
	Status      ExpiryStatus `json:"status"`
}

// Notifier delivers stock alerts. Implementations may fail; the ledger never
// lets a delivery error affect a committed stock change.
type Notifier interface {
	NotifyLowStock(ctx context.Context, alert LowStockAlert) error
	NotifyExpiry(ctx context.Context, alert ExpiryAlert) error
}

// ClassifyExpiry returns the alert status for an expiry date, and false when
// the date is further away than the warning window.
func ClassifyExpiry(expiry, now time.Time, warningDays int) (ExpiryStatus, bool) {
	if !expiry.After(now) {
		return ExpiryExpired, true
	}
	if expiry.Sub(now) <= time.Duration(warningDays)*24*time.Hour {
		return ExpiryNearExpiry, true
	}
	return "", false
}
