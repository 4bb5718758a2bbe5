package kafka

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeSaleCompleted = "sale.completed"
	EventTypeSaleCancelled = "sale.cancelled"
	EventTypeStockAlert    = "stock.alert"
)

// Kafka topics
const (
	TopicSales       = "pos-sales"
	TopicStockAlerts = "pos-stock-alerts"
)

// TopicFor returns the topic an event type is published to
func TopicFor(eventType string) string {
	if eventType == EventTypeStockAlert {
		return TopicStockAlerts
	}
	return TopicSales
}

// Envelope carries the metadata shared by every event
type Envelope struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SaleItemLine is one line of a sale event
type SaleItemLine struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleCompletedEvent is published once a sale has committed
type SaleCompletedEvent struct {
	Envelope
	SaleID        uint            `json:"sale_id"`
	ReceiptNumber string          `json:"receipt_number"`
	CustomerID    *uint           `json:"customer_id,omitempty"`
	UserID        uint            `json:"user_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	Items         []SaleItemLine  `json:"items"`
}

// SaleCancelledEvent is published once a cancellation has committed
type SaleCancelledEvent struct {
	Envelope
	SaleID        uint            `json:"sale_id"`
	ReceiptNumber string          `json:"receipt_number"`
	CancelledBy   uint            `json:"cancelled_by"`
	Reason        string          `json:"reason,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// Stock alert kinds
const (
	AlertLowStock   = "low_stock"
	AlertNearExpiry = "near_expiry"
	AlertExpired    = "expired"
)

// StockAlertEvent carries a low stock or expiry alert to the notification consumer
type StockAlertEvent struct {
	Envelope
	Kind          string     `json:"kind"`
	ProductID     uint       `json:"product_id"`
	ProductName   string     `json:"product_name"`
	Quantity      int        `json:"quantity,omitempty"`
	MinStockLevel int        `json:"min_stock_level,omitempty"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
}
