package command

import (
	"context"

	"github.com/tair/grocery-pos/internal/inventory/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/database"
	"github.com/tair/grocery-pos/pkg/logger"
)

// DeleteInventoryCommand represents the command to delete an inventory
type DeleteInventoryCommand struct {
	ID uint
}

// DeleteInventoryHandler handles delete inventory command
type DeleteInventoryHandler struct {
	repo domain.InventoryRepository
	tx   *database.Transactor
}

// NewDeleteInventoryHandler creates a new delete inventory handler
func NewDeleteInventoryHandler(repo domain.InventoryRepository, tx *database.Transactor) *DeleteInventoryHandler {
	return &DeleteInventoryHandler{repo: repo, tx: tx}
}

// Handle removes an inventory row and its ledger unless a sale is recorded
// against it.
func (h *DeleteInventoryHandler) Handle(ctx context.Context, cmd DeleteInventoryCommand) error {
	if cmd.ID == 0 {
		return apperror.InvalidInput("invalid inventory id")
	}

	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := h.repo.FindByIDForUpdate(ctx, cmd.ID); err != nil {
			return err
		}

		sold, err := h.repo.HasSaleTransactions(ctx, cmd.ID)
		if err != nil {
			return err
		}
		if sold {
			return apperror.Conflict("inventory %d has sale history and cannot be deleted", cmd.ID)
		}

		if err := h.repo.DeleteTransactions(ctx, cmd.ID); err != nil {
			return err
		}
		return h.repo.Delete(ctx, cmd.ID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx).Uint("inventory_id", cmd.ID).Msg("Inventory deleted")
	return nil
}
