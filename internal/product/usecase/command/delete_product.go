package command

import (
	"context"

	"github.com/tair/grocery-pos/internal/product/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/database"
	"github.com/tair/grocery-pos/pkg/logger"
)

// DeleteProductCommand represents the command to delete a product
type DeleteProductCommand struct {
	ID uint
}

// DeleteProductHandler handles product deletion command
type DeleteProductHandler struct {
	repo domain.ProductRepository
	tx   *database.Transactor
}

// NewDeleteProductHandler creates a new delete product handler
func NewDeleteProductHandler(repo domain.ProductRepository, tx *database.Transactor) *DeleteProductHandler {
	return &DeleteProductHandler{repo: repo, tx: tx}
}

// Handle deletes a product that no sale references, along with its stock
func (h *DeleteProductHandler) Handle(ctx context.Context, cmd DeleteProductCommand) error {
	if cmd.ID == 0 {
		return apperror.InvalidInput("invalid product id")
	}

	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := h.repo.FindByID(ctx, cmd.ID); err != nil {
			return err
		}

		sold, err := h.repo.HasSales(ctx, cmd.ID)
		if err != nil {
			return err
		}
		if sold {
			return apperror.Conflict("product %d is referenced by sales and cannot be deleted", cmd.ID)
		}

		return h.repo.Delete(ctx, cmd.ID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx).Uint("product_id", cmd.ID).Msg("Product deleted")
	return nil
}
