package command

import (
	"context"
	"time"

	"github.com/tair/grocery-pos/internal/inventory/domain"
	"github.com/tair/grocery-pos/pkg/logger"
	"github.com/tair/grocery-pos/pkg/metrics"
)

// Alerts turns stock conditions into Notifier calls. Delivery errors are
// logged and never returned; alerts run after the stock change committed.
type Alerts struct {
	products    domain.ProductReader
	notifier    domain.Notifier
	metrics     *metrics.Metrics
	warningDays int
	now         func() time.Time
}

// NewAlerts creates the alert dispatcher. warningDays is the near expiry window.
func NewAlerts(products domain.ProductReader, notifier domain.Notifier, m *metrics.Metrics, warningDays int) *Alerts {
	if warningDays <= 0 {
		warningDays = 7
	}
	return &Alerts{
		products:    products,
		notifier:    notifier,
		metrics:     m,
		warningDays: warningDays,
		now:         time.Now,
	}
}

func (a *Alerts) productName(ctx context.Context, productID uint) string {
	product, err := a.products.FindByID(ctx, productID)
	if err != nil {
		logger.Warn(ctx).Err(err).Uint("product_id", productID).Msg("Could not resolve product for alert")
		return ""
	}
	return product.Name
}

// LowStock notifies managers that a product fell to or below its minimum
func (a *Alerts) LowStock(ctx context.Context, productID uint, quantity, minLevel int) {
	a.metrics.LowStockAlert()

	alert := domain.LowStockAlert{
		ProductID:     productID,
		ProductName:   a.productName(ctx, productID),
		Quantity:      quantity,
		MinStockLevel: minLevel,
	}
	if err := a.notifier.NotifyLowStock(ctx, alert); err != nil {
		a.metrics.NotificationFailed()
		logger.Error(ctx).Err(err).
			Uint("product_id", productID).
			Int("quantity", quantity).
			Msg("Low stock notification failed")
	}
}

// Expiry classifies the expiry date and notifies when it is expired or
// within the warning window. It reports the status it raised, if any.
func (a *Alerts) Expiry(ctx context.Context, productID uint, expiry time.Time) (domain.ExpiryStatus, bool) {
	status, due := domain.ClassifyExpiry(expiry, a.now(), a.warningDays)
	if !due {
		return "", false
	}

	alert := domain.ExpiryAlert{
		ProductID:   productID,
		ProductName: a.productName(ctx, productID),
		ExpiryDate:  expiry,
		Status:      status,
	}
	if err := a.notifier.NotifyExpiry(ctx, alert); err != nil {
		a.metrics.NotificationFailed()
		logger.Error(ctx).Err(err).
			Uint("product_id", productID).
			Str("status", string(status)).
			Msg("Expiry notification failed")
	}
	return status, true
}
