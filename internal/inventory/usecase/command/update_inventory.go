package command

import (
	"context"
	"strings"
	"time"

	"github.com/tair/grocery-pos/internal/inventory/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/database"
)

// UpdateInventoryCommand changes the descriptive fields of an inventory row.
// Quantity is carried only so that a caller trying to set it can be refused.
type UpdateInventoryCommand struct {
	ID            uint
	Quantity      *int
	MinStockLevel *int
	Location      *string
	ExpiryDate    *time.Time
	ClearExpiry   bool
}

// UpdateInventoryHandler handles update inventory command
type UpdateInventoryHandler struct {
	repo   domain.InventoryRepository
	alerts *Alerts
	tx     *database.Transactor
}

// NewUpdateInventoryHandler creates a new update inventory handler
func NewUpdateInventoryHandler(repo domain.InventoryRepository, alerts *Alerts, tx *database.Transactor) *UpdateInventoryHandler {
	return &UpdateInventoryHandler{repo: repo, alerts: alerts, tx: tx}
}

// Handle executes the update inventory command
func (h *UpdateInventoryHandler) Handle(ctx context.Context, cmd UpdateInventoryCommand) (*domain.Inventory, error) {
	if cmd.ID == 0 {
		return nil, apperror.InvalidInput("invalid inventory id")
	}
	if cmd.Quantity != nil {
		return nil, apperror.InvalidInput("quantity cannot be updated directly; use the adjust endpoint")
	}
	if cmd.MinStockLevel != nil && *cmd.MinStockLevel < 0 {
		return nil, apperror.InvalidInput("min_stock_level cannot be negative")
	}
	if cmd.ClearExpiry && cmd.ExpiryDate != nil {
		return nil, apperror.InvalidInput("expiry_date cannot be set and cleared at once")
	}

	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		inv, err := h.repo.FindByIDForUpdate(ctx, cmd.ID)
		if err != nil {
			return err
		}

		minChanged := false
		if cmd.MinStockLevel != nil && *cmd.MinStockLevel != inv.MinStockLevel {
			inv.MinStockLevel = *cmd.MinStockLevel
			minChanged = true
		}
		if cmd.Location != nil {
			inv.Location = strings.TrimSpace(*cmd.Location)
			if inv.Location == "" {
				inv.Location = domain.DefaultLocation
			}
		}
		expiryTouched := false
		if cmd.ExpiryDate != nil {
			expiry := *cmd.ExpiryDate
			inv.ExpiryDate = &expiry
			expiryTouched = true
		}
		if cmd.ClearExpiry {
			inv.ExpiryDate = nil
		}

		if err := h.repo.UpdateDetails(ctx, inv); err != nil {
			return err
		}

		if minChanged && inv.IsLowStock() {
			productID, quantity, minLevel := inv.ProductID, inv.Quantity, inv.MinStockLevel
			database.AfterCommit(ctx, func(ctx context.Context) {
				h.alerts.LowStock(ctx, productID, quantity, minLevel)
			})
		}
		if expiryTouched {
			productID, expiry := inv.ProductID, *inv.ExpiryDate
			database.AfterCommit(ctx, func(ctx context.Context) {
				h.alerts.Expiry(ctx, productID, expiry)
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return h.repo.FindByID(ctx, cmd.ID)
}
