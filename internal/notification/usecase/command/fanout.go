package command

import (
	"context"
	"fmt"

	inventorydomain "github.com/tair/grocery-pos/internal/inventory/domain"
	"github.com/tair/grocery-pos/internal/notification/domain"
	"github.com/tair/grocery-pos/pkg/logger"
	"github.com/tair/grocery-pos/pkg/metrics"
)

// FanOutService writes one unread notification per active admin and
// manager. It is the direct stock alert sink.
type FanOutService struct {
	repo       domain.NotificationRepository
	recipients domain.RecipientFinder
	metrics    *metrics.Metrics
}

func NewFanOutService(repo domain.NotificationRepository, recipients domain.RecipientFinder, m *metrics.Metrics) *FanOutService {
	return &FanOutService{repo: repo, recipients: recipients, metrics: m}
}

var _ inventorydomain.Notifier = (*FanOutService)(nil)

func productLabel(id uint, name string) string {
	if name == "" {
		return fmt.Sprintf("product #%d", id)
	}
	return name
}

// NotifyLowStock implements inventorydomain.Notifier
func (s *FanOutService) NotifyLowStock(ctx context.Context, alert inventorydomain.LowStockAlert) error {
	productID := alert.ProductID
	return s.fanOut(ctx, domain.Notification{
		Type:  domain.TypeLowStock,
		Title: "Low stock alert",
		Message: fmt.Sprintf("%s is running low: %d left (minimum %d)",
			productLabel(alert.ProductID, alert.ProductName), alert.Quantity, alert.MinStockLevel),
		ProductID: &productID,
	})
}

// NotifyExpiry implements inventorydomain.Notifier
func (s *FanOutService) NotifyExpiry(ctx context.Context, alert inventorydomain.ExpiryAlert) error {
	productID := alert.ProductID
	label := productLabel(alert.ProductID, alert.ProductName)
	date := alert.ExpiryDate.Format("2006-01-02")

	n := domain.Notification{ProductID: &productID}
	switch alert.Status {
	case inventorydomain.ExpiryExpired:
		n.Type = domain.TypeExpired
		n.Title = "Product expired"
		n.Message = fmt.Sprintf("%s expired on %s", label, date)
	case inventorydomain.ExpiryNearExpiry:
		n.Type = domain.TypeNearExpiry
		n.Title = "Product near expiry"
		n.Message = fmt.Sprintf("%s expires on %s", label, date)
	default:
		return fmt.Errorf("unknown expiry status %q", alert.Status)
	}
	return s.fanOut(ctx, n)
}

// NotifySystem sends a system message to the stock recipients
func (s *FanOutService) NotifySystem(ctx context.Context, title, message string) error {
	return s.fanOut(ctx, domain.Notification{Type: domain.TypeSystem, Title: title, Message: message})
}

func (s *FanOutService) fanOut(ctx context.Context, template domain.Notification) error {
	userIDs, err := s.recipients.ActiveStockRecipients(ctx)
	if err != nil {
		return fmt.Errorf("find notification recipients: %w", err)
	}
	if len(userIDs) == 0 {
		logger.Warn(ctx).
			Str("type", template.Type).
			Msg("No active admin or manager to notify")
		return nil
	}

	rows := make([]domain.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		n := template
		n.UserID = id
		rows = append(rows, n)
	}
	if err := s.repo.CreateBatch(ctx, rows); err != nil {
		return err
	}

	s.metrics.NotificationsCreated(template.Type, len(rows))
	logger.Info(ctx).
		Str("type", template.Type).
		Int("recipients", len(rows)).
		Msg("Notifications created")
	return nil
}
