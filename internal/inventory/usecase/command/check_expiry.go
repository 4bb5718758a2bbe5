package command

import (
	"context"
	"time"

	"github.com/tair/grocery-pos/internal/inventory/domain"
	"github.com/tair/grocery-pos/pkg/logger"
)

// ExpiryCheckResult counts the alerts raised by one scan
type ExpiryCheckResult struct {
	Scanned    int `json:"scanned"`
	Expired    int `json:"expired"`
	NearExpiry int `json:"near_expiry"`
}

// CheckExpiryHandler scans dated stock and raises expiry alerts
type CheckExpiryHandler struct {
	repo   domain.InventoryRepository
	alerts *Alerts
}

func NewCheckExpiryHandler(repo domain.InventoryRepository, alerts *Alerts) *CheckExpiryHandler {
	return &CheckExpiryHandler{repo: repo, alerts: alerts}
}

// Handle notifies for every row with stock left that has expired or expires
// within the warning window.
func (h *CheckExpiryHandler) Handle(ctx context.Context) (*ExpiryCheckResult, error) {
	horizon := h.alerts.now().Add(time.Duration(h.alerts.warningDays) * 24 * time.Hour)

	inventories, err := h.repo.ListExpiringBefore(ctx, horizon)
	if err != nil {
		return nil, err
	}

	result := &ExpiryCheckResult{}
	for _, inv := range inventories {
		if inv.Quantity == 0 || inv.ExpiryDate == nil {
			continue
		}
		result.Scanned++

		status, raised := h.alerts.Expiry(ctx, inv.ProductID, *inv.ExpiryDate)
		if !raised {
			continue
		}
		if status == domain.ExpiryExpired {
			result.Expired++
		} else {
			result.NearExpiry++
		}
	}

	logger.Info(ctx).
		Int("scanned", result.Scanned).
		Int("expired", result.Expired).
		Int("near_expiry", result.NearExpiry).
		Msg("Expiry check completed")
	return result, nil
}
