package command

import (
	"context"

	"github.com/tair/grocery-pos/internal/sale/domain"
	"github.com/tair/grocery-pos/kafka"
	"github.com/tair/grocery-pos/pkg/logger"
	"github.com/tair/grocery-pos/pkg/metrics"
)

// Effects runs the best-effort work that follows a committed sale change:
// metrics, loyalty points, events and report cache invalidation. Nothing
// here can fail the sale.
type Effects struct {
	loyalty LoyaltyProgram
	events  EventPublisher
	reports ReportCache
	metrics *metrics.Metrics
}

func NewEffects(loyalty LoyaltyProgram, events EventPublisher, reports ReportCache, m *metrics.Metrics) *Effects {
	return &Effects{loyalty: loyalty, events: events, reports: reports, metrics: m}
}

func (e *Effects) saleCompleted(ctx context.Context, sale *domain.Sale) {
	e.metrics.SaleCreated(sale.TotalAmount)
	if sale.CustomerID != nil && e.loyalty != nil {
		e.loyalty.Award(ctx, *sale.CustomerID, sale.TotalAmount)
	}

	if e.events != nil {
		lines := make([]kafka.SaleItemLine, 0, len(sale.Items))
		for _, item := range sale.Items {
			lines = append(lines, kafka.SaleItemLine{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				Subtotal:  item.Subtotal,
			})
		}
		err := e.events.PublishSaleCompleted(ctx, kafka.SaleCompletedEvent{
			SaleID:        sale.ID,
			ReceiptNumber: sale.ReceiptNumber,
			CustomerID:    sale.CustomerID,
			UserID:        sale.UserID,
			TotalAmount:   sale.TotalAmount,
			PaymentMethod: sale.PaymentMethod,
			Items:         lines,
		})
		if err != nil {
			logger.Warn(ctx).Err(err).Uint("sale_id", sale.ID).Msg("sale.completed event dropped")
		}
	}

	e.invalidateReports(ctx)
}

func (e *Effects) saleCancelled(ctx context.Context, sale *domain.Sale) {
	e.metrics.SaleCancelled()
	if sale.CustomerID != nil && e.loyalty != nil {
		e.loyalty.Revoke(ctx, *sale.CustomerID, sale.TotalAmount)
	}

	if e.events != nil {
		var cancelledBy uint
		if sale.CancelledBy != nil {
			cancelledBy = *sale.CancelledBy
		}
		err := e.events.PublishSaleCancelled(ctx, kafka.SaleCancelledEvent{
			SaleID:        sale.ID,
			ReceiptNumber: sale.ReceiptNumber,
			CancelledBy:   cancelledBy,
			Reason:        sale.CancelReason,
			TotalAmount:   sale.TotalAmount,
		})
		if err != nil {
			logger.Warn(ctx).Err(err).Uint("sale_id", sale.ID).Msg("sale.cancelled event dropped")
		}
	}

	e.invalidateReports(ctx)
}

func (e *Effects) invalidateReports(ctx context.Context) {
	if e.reports == nil {
		return
	}
	if err := e.reports.Invalidate(ctx); err != nil {
		logger.Warn(ctx).Err(err).Msg("Report cache invalidation failed")
	}
}
