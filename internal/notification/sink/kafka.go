package sink

import (
	"context"

	inventorydomain "github.com/tair/grocery-pos/internal/inventory/domain"
	"github.com/tair/grocery-pos/kafka"
)

// AlertPublisher is the part of the Kafka publisher the sink needs
type AlertPublisher interface {
	PublishStockAlert(ctx context.Context, event kafka.StockAlertEvent) error
}

// KafkaNotifier publishes stock alerts as stock.alert events. The
// notification consumer turns them into rows.
type KafkaNotifier struct {
	publisher AlertPublisher
}

func NewKafkaNotifier(publisher AlertPublisher) *KafkaNotifier {
	return &KafkaNotifier{publisher: publisher}
}

func (k *KafkaNotifier) NotifyLowStock(ctx context.Context, alert inventorydomain.LowStockAlert) error {
	return k.publisher.PublishStockAlert(ctx, kafka.StockAlertEvent{
		Kind:          kafka.AlertLowStock,
		ProductID:     alert.ProductID,
		ProductName:   alert.ProductName,
		Quantity:      alert.Quantity,
		MinStockLevel: alert.MinStockLevel,
	})
}

func (k *KafkaNotifier) NotifyExpiry(ctx context.Context, alert inventorydomain.ExpiryAlert) error {
	expiry := alert.ExpiryDate
	kind := kafka.AlertNearExpiry
	if alert.Status == inventorydomain.ExpiryExpired {
		kind = kafka.AlertExpired
	}
	return k.publisher.PublishStockAlert(ctx, kafka.StockAlertEvent{
		Kind:        kind,
		ProductID:   alert.ProductID,
		ProductName: alert.ProductName,
		ExpiryDate:  &expiry,
	})
}
