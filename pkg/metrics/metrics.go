package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Metrics groups the Prometheus collectors of the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	RequestCounter *prometheus.CounterVec
	RequestLatency *prometheus.HistogramVec

	salesCreated        prometheus.Counter
	salesCancelled      prometheus.Counter
	revenue             prometheus.Counter
	stockAdjustments    *prometheus.CounterVec
	lowStockAlerts      prometheus.Counter
	notificationsSent   *prometheus.CounterVec
	notificationFailure prometheus.Counter
}

// New registers all collectors with reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestCounter: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pos_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		salesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "pos_sales_created_total",
			Help: "Number of completed sales",
		}),
		salesCancelled: f.NewCounter(prometheus.CounterOpts{
			Name: "pos_sales_cancelled_total",
			Help: "Number of cancelled sales",
		}),
		revenue: f.NewCounter(prometheus.CounterOpts{
			Name: "pos_sales_revenue_total",
			Help: "Sum of completed sale totals",
		}),
		stockAdjustments: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_stock_adjustments_total",
				Help: "Inventory ledger entries by type",
			},
			[]string{"type"},
		),
		lowStockAlerts: f.NewCounter(prometheus.CounterOpts{
			Name: "pos_low_stock_alerts_total",
			Help: "Low stock alerts raised by the inventory ledger",
		}),
		notificationsSent: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_notifications_created_total",
				Help: "Notification rows created by type",
			},
			[]string{"type"},
		),
		notificationFailure: f.NewCounter(prometheus.CounterOpts{
			Name: "pos_notification_failures_total",
			Help: "Notification dispatches that failed and were dropped",
		}),
	}
}

func (m *Metrics) SaleCreated(total decimal.Decimal) {
	if m == nil {
		return
	}
	m.salesCreated.Inc()
	m.revenue.Add(total.InexactFloat64())
}

func (m *Metrics) SaleCancelled() {
	if m == nil {
		return
	}
	m.salesCancelled.Inc()
}

func (m *Metrics) StockAdjusted(txType string) {
	if m == nil {
		return
	}
	m.stockAdjustments.WithLabelValues(txType).Inc()
}

func (m *Metrics) LowStockAlert() {
	if m == nil {
		return
	}
	m.lowStockAlerts.Inc()
}

func (m *Metrics) NotificationsCreated(notificationType string, n int) {
	if m == nil {
		return
	}
	m.notificationsSent.WithLabelValues(notificationType).Add(float64(n))
}

func (m *Metrics) NotificationFailed() {
	if m == nil {
		return
	}
	m.notificationFailure.Inc()
}
