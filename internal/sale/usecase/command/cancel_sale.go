package command

import (
	"context"
	"strings"
	"time"

	inventorydomain "github.com/tair/grocery-pos/internal/inventory/domain"
	inventorycommand "github.com/tair/grocery-pos/internal/inventory/usecase/command"
	"github.com/tair/grocery-pos/internal/sale/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/database"
	"github.com/tair/grocery-pos/pkg/logger"
)

// CancelSaleCommand voids a completed sale
type CancelSaleCommand struct {
	SaleID  uint
	ActorID uint
	Reason  string
}

type CancelSaleHandler struct {
	repo    domain.SaleRepository
	stock   StockLocator
	ledger  StockLedger
	effects *Effects
	tx      *database.Transactor
	now     func() time.Time
}

func NewCancelSaleHandler(
	repo domain.SaleRepository,
	stock StockLocator,
	ledger StockLedger,
	effects *Effects,
	tx *database.Transactor,
) *CancelSaleHandler {
	return &CancelSaleHandler{
		repo:    repo,
		stock:   stock,
		ledger:  ledger,
		effects: effects,
		tx:      tx,
		now:     time.Now,
	}
}

// Handle marks the sale cancelled and refunded and credits every item back
// to stock with a return entry, all in one transaction.
func (h *CancelSaleHandler) Handle(ctx context.Context, cmd CancelSaleCommand) (*domain.Sale, error) {
	if cmd.SaleID == 0 {
		return nil, apperror.InvalidInput("sale id is required")
	}
	if cmd.ActorID == 0 {
		return nil, apperror.InvalidInput("actor is required")
	}

	var sale *domain.Sale
	err := h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		sale, err = h.repo.FindByIDForUpdate(ctx, cmd.SaleID)
		if err != nil {
			return err
		}
		if sale.Status == domain.StatusCancelled {
			return apperror.AlreadyCancelled("sale %d is already cancelled", sale.ID)
		}

		saleID := sale.ID
		for _, item := range sale.Items {
			inv, err := h.stock.FindByProductID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			_, err = h.ledger.Handle(ctx, inventorycommand.AdjustQuantityCommand{
				InventoryID: inv.ID,
				Delta:       item.Quantity,
				Type:        inventorydomain.TypeReturn,
				Reason:      "cancelled sale " + sale.ReceiptNumber,
				ActorID:     cmd.ActorID,
				SaleID:      &saleID,
			})
			if err != nil {
				return err
			}
		}

		now := h.now()
		actorID := cmd.ActorID
		sale.Status = domain.StatusCancelled
		sale.PaymentStatus = domain.PaymentRefunded
		sale.CancelledAt = &now
		sale.CancelledBy = &actorID
		sale.CancelReason = strings.TrimSpace(cmd.Reason)
		if err := h.repo.MarkCancelled(ctx, sale); err != nil {
			return err
		}

		cancelled := sale
		database.AfterCommit(ctx, func(ctx context.Context) {
			h.effects.saleCancelled(ctx, cancelled)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("sale_id", sale.ID).
		Str("receipt_number", sale.ReceiptNumber).
		Uint("actor_id", cmd.ActorID).
		Msg("Sale cancelled")

	return h.repo.FindByID(ctx, sale.ID)
}
