package command

import (
	"context"
	"strings"

	"github.com/tair/grocery-pos/internal/inventory/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/database"
	"github.com/tair/grocery-pos/pkg/logger"
	"github.com/tair/grocery-pos/pkg/metrics"
)

// AdjustQuantityCommand changes stock by a signed delta
type AdjustQuantityCommand struct {
	InventoryID uint
	Delta       int
	Type        string
	Reason      string
	ActorID     uint
	SaleID      *uint
}

// AdjustmentResult is the outcome of a ledger write
type AdjustmentResult struct {
	PreviousQuantity int                          `json:"previous_quantity"`
	NewQuantity      int                          `json:"new_quantity"`
	Transaction      *domain.InventoryTransaction `json:"transaction"`
}

// AdjustQuantityHandler is the inventory ledger: the only path that changes
// Inventory.Quantity.
type AdjustQuantityHandler struct {
	repo    domain.InventoryRepository
	alerts  *Alerts
	tx      *database.Transactor
	metrics *metrics.Metrics
}

// NewAdjustQuantityHandler creates the ledger handler
func NewAdjustQuantityHandler(
	repo domain.InventoryRepository,
	alerts *Alerts,
	tx *database.Transactor,
	m *metrics.Metrics,
) *AdjustQuantityHandler {
	return &AdjustQuantityHandler{repo: repo, alerts: alerts, tx: tx, metrics: m}
}

func (cmd *AdjustQuantityCommand) validate() error {
	if cmd.InventoryID == 0 {
		return apperror.InvalidInput("inventory id is required")
	}
	if cmd.Delta == 0 {
		return apperror.InvalidInput("quantity delta must be non-zero")
	}

	cmd.Type = strings.TrimSpace(cmd.Type)
	if cmd.Type == "" {
		cmd.Type = domain.TypeAdjustment
	}
	if !domain.ValidTransactionType(cmd.Type) {
		return apperror.InvalidInput("unknown transaction type %q", cmd.Type)
	}

	switch {
	case cmd.Type == domain.TypeSale && cmd.Delta > 0:
		return apperror.InvalidInput("a sale entry must decrease stock")
	case (cmd.Type == domain.TypeReturn || cmd.Type == domain.TypeRestock) && cmd.Delta < 0:
		return apperror.InvalidInput("a %s entry must increase stock", cmd.Type)
	}

	if cmd.Reason == "" {
		cmd.Reason = cmd.Type
	}
	return nil
}

// Handle applies the delta under a row lock and appends the ledger row. It
// joins the caller's transaction when ctx carries one. A resulting quantity
// at or below the minimum schedules a low stock alert for after commit.
func (h *AdjustQuantityHandler) Handle(ctx context.Context, cmd AdjustQuantityCommand) (*AdjustmentResult, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	var result *AdjustmentResult
	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		inv, err := h.repo.FindByIDForUpdate(ctx, cmd.InventoryID)
		if err != nil {
			return err
		}

		previous := inv.Quantity
		next := previous + cmd.Delta
		if next < 0 {
			return apperror.InsufficientStock(
				"insufficient stock for product %d: available %d, requested %d",
				inv.ProductID, previous, -cmd.Delta)
		}

		applied, err := h.repo.ApplyDelta(ctx, inv.ID, cmd.Delta)
		if err != nil {
			return err
		}
		if !applied {
			return apperror.InsufficientStock(
				"insufficient stock for product %d: requested %d", inv.ProductID, -cmd.Delta)
		}

		entry := &domain.InventoryTransaction{
			InventoryID:      inv.ID,
			UserID:           cmd.ActorID,
			Type:             cmd.Type,
			Quantity:         cmd.Delta,
			PreviousQuantity: previous,
			NewQuantity:      next,
			Reason:           cmd.Reason,
			SaleID:           cmd.SaleID,
		}
		if err := h.repo.CreateTransaction(ctx, entry); err != nil {
			return err
		}

		database.AfterCommit(ctx, func(ctx context.Context) {
			h.metrics.StockAdjusted(cmd.Type)
		})
		if cmd.Delta < 0 && next <= inv.MinStockLevel {
			productID, minLevel := inv.ProductID, inv.MinStockLevel
			database.AfterCommit(ctx, func(ctx context.Context) {
				h.alerts.LowStock(ctx, productID, next, minLevel)
			})
		}

		result = &AdjustmentResult{
			PreviousQuantity: previous,
			NewQuantity:      next,
			Transaction:      entry,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug(ctx).
		Uint("inventory_id", cmd.InventoryID).
		Str("type", cmd.Type).
		Int("delta", cmd.Delta).
		Int("previous_quantity", result.PreviousQuantity).
		Int("new_quantity", result.NewQuantity).
		Msg("Inventory adjusted")
	return result, nil
}
