package command

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tair/grocery-pos/internal/inventory/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/database"
	"github.com/tair/grocery-pos/pkg/logger"
)

// CreateInventoryCommand represents the command to stock a product for the first time
type CreateInventoryCommand struct {
	ProductID     uint
	Quantity      int
	MinStockLevel int
	ExpiryDate    *time.Time
	Location      string
	ActorID       uint
}

// CreateInventoryHandler handles create inventory command
type CreateInventoryHandler struct {
	repo     domain.InventoryRepository
	products domain.ProductReader
	ledger   *AdjustQuantityHandler
	alerts   *Alerts
	tx       *database.Transactor
}

// NewCreateInventoryHandler creates a new create inventory handler
func NewCreateInventoryHandler(
	repo domain.InventoryRepository,
	products domain.ProductReader,
	ledger *AdjustQuantityHandler,
	alerts *Alerts,
	tx *database.Transactor,
) *CreateInventoryHandler {
	return &CreateInventoryHandler{repo: repo, products: products, ledger: ledger, alerts: alerts, tx: tx}
}

// Handle creates the inventory row at zero and books any initial quantity as
// a restock entry, so the ledger accounts for the full quantity.
func (h *CreateInventoryHandler) Handle(ctx context.Context, cmd CreateInventoryCommand) (*domain.Inventory, error) {
	if cmd.ProductID == 0 {
		return nil, apperror.InvalidInput("product_id is required")
	}
	if cmd.Quantity < 0 {
		return nil, apperror.InvalidInput("quantity cannot be negative")
	}
	if cmd.MinStockLevel < 0 {
		return nil, apperror.InvalidInput("min_stock_level cannot be negative")
	}

	location := strings.TrimSpace(cmd.Location)
	if location == "" {
		location = domain.DefaultLocation
	}

	inventory := &domain.Inventory{
		ProductID:     cmd.ProductID,
		MinStockLevel: cmd.MinStockLevel,
		ExpiryDate:    cmd.ExpiryDate,
		Location:      location,
	}

	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := h.products.FindByID(ctx, cmd.ProductID); err != nil {
			return err
		}

		existing, err := h.repo.FindByProductID(ctx, cmd.ProductID)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		if existing != nil {
			return apperror.Conflict("inventory for product %d already exists", cmd.ProductID)
		}

		if err := h.repo.Create(ctx, inventory); err != nil {
			return err
		}

		if cmd.Quantity > 0 {
			result, err := h.ledger.Handle(ctx, AdjustQuantityCommand{
				InventoryID: inventory.ID,
				Delta:       cmd.Quantity,
				Type:        domain.TypeRestock,
				Reason:      "initial stock",
				ActorID:     cmd.ActorID,
			})
			if err != nil {
				return err
			}
			inventory.Quantity = result.NewQuantity
		}

		if inventory.ExpiryDate != nil {
			expiry, productID := *inventory.ExpiryDate, inventory.ProductID
			database.AfterCommit(ctx, func(ctx context.Context) {
				h.alerts.Expiry(ctx, productID, expiry)
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("inventory_id", inventory.ID).
		Uint("product_id", inventory.ProductID).
		Int("quantity", inventory.Quantity).
		Msg("Inventory created")
	return inventory, nil
}
