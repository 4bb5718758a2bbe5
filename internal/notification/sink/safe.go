package sink

import (
	"context"
	"fmt"

	inventorydomain "github.com/tair/grocery-pos/internal/inventory/domain"
	"github.com/tair/grocery-pos/pkg/logger"
)

// SafeNotifier converts a panic in the wrapped sink into a logged error
type SafeNotifier struct {
	name string
	next inventorydomain.Notifier
}

func NewSafeNotifier(name string, next inventorydomain.Notifier) *SafeNotifier {
	return &SafeNotifier{name: name, next: next}
}

func (s *SafeNotifier) NotifyLowStock(ctx context.Context, alert inventorydomain.LowStockAlert) (err error) {
	defer s.recover(ctx, "low_stock", &err)
	return s.next.NotifyLowStock(ctx, alert)
}

func (s *SafeNotifier) NotifyExpiry(ctx context.Context, alert inventorydomain.ExpiryAlert) (err error) {
	defer s.recover(ctx, string(alert.Status), &err)
	return s.next.NotifyExpiry(ctx, alert)
}

func (s *SafeNotifier) recover(ctx context.Context, kind string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	logger.Error(ctx).
		Str("sink", s.name).
		Str("kind", kind).
		Interface("panic", r).
		Msg("Notification sink panicked")
	*err = fmt.Errorf("notification sink %s panicked: %v", s.name, r)
}
