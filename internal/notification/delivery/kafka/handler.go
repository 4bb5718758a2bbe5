package kafka

import (
	"context"
	"fmt"

	inventorydomain "github.com/tair/grocery-pos/internal/inventory/domain"
	"github.com/tair/grocery-pos/kafka"
	"github.com/tair/grocery-pos/pkg/logger"
)

// StockAlertHandler applies stock.alert events through a direct notifier
type StockAlertHandler struct {
	notifier inventorydomain.Notifier
}

func NewStockAlertHandler(notifier inventorydomain.Notifier) *StockAlertHandler {
	return &StockAlertHandler{notifier: notifier}
}

// Register binds the handler to the consumer
func (h *StockAlertHandler) Register(consumer *kafka.Consumer) {
	consumer.RegisterHandler(kafka.EventTypeStockAlert, h.Handle)
}

func (h *StockAlertHandler) Handle(ctx context.Context, msg kafka.Message) error {
	event, err := kafka.DecodeStockAlert(msg.Payload)
	if err != nil {
		return err
	}

	logger.Debug(ctx).
		Str("event_id", msg.EventID).
		Str("kind", event.Kind).
		Uint("product_id", event.ProductID).
		Msg("Stock alert received")

	switch event.Kind {
	case kafka.AlertLowStock:
		return h.notifier.NotifyLowStock(ctx, inventorydomain.LowStockAlert{
			ProductID:     event.ProductID,
			ProductName:   event.ProductName,
			Quantity:      event.Quantity,
			MinStockLevel: event.MinStockLevel,
		})
	case kafka.AlertExpired, kafka.AlertNearExpiry:
		if event.ExpiryDate == nil {
			return fmt.Errorf("stock alert %s without expiry date", msg.EventID)
		}
		status := inventorydomain.ExpiryNearExpiry
		if event.Kind == kafka.AlertExpired {
			status = inventorydomain.ExpiryExpired
		}
		return h.notifier.NotifyExpiry(ctx, inventorydomain.ExpiryAlert{
			ProductID:   event.ProductID,
			ProductName: event.ProductName,
			ExpiryDate:  *event.ExpiryDate,
			Status:      status,
		})
	default:
		return fmt.Errorf("unknown stock alert kind %q", event.Kind)
	}
}
