package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	inventorydomain "github.com/tair/grocery-pos/internal/inventory/domain"
	inventorycommand "github.com/tair/grocery-pos/internal/inventory/usecase/command"
	"github.com/tair/grocery-pos/internal/sale/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/database"
	"github.com/tair/grocery-pos/pkg/logger"
)

// SaleItemInput is one requested line. A nil UnitPrice means the current
// catalog price.
type SaleItemInput struct {
	ProductID uint
	Quantity  int
	UnitPrice *decimal.Decimal
	Discount  decimal.Decimal
}

// CreateSaleCommand represents a checkout
type CreateSaleCommand struct {
	CustomerID     *uint
	Items          []SaleItemInput
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	PaymentMethod  string
	PaymentStatus  string
	Notes          string
	ActorID        uint
}

// CreateSaleHandler records a sale and takes its items out of stock in one
// transaction
type CreateSaleHandler struct {
	repo      domain.SaleRepository
	products  ProductCatalog
	stock     StockLocator
	ledger    StockLedger
	customers CustomerFinder
	effects   *Effects
	tx        *database.Transactor
	now       func() time.Time
}

func NewCreateSaleHandler(
	repo domain.SaleRepository,
	products ProductCatalog,
	stock StockLocator,
	ledger StockLedger,
	customers CustomerFinder,
	effects *Effects,
	tx *database.Transactor,
) *CreateSaleHandler {
	return &CreateSaleHandler{
		repo:      repo,
		products:  products,
		stock:     stock,
		ledger:    ledger,
		customers: customers,
		effects:   effects,
		tx:        tx,
		now:       time.Now,
	}
}

// NewReceiptNumber returns a receipt number like RCP-20261019-1A2B3C4D
func NewReceiptNumber(at time.Time) string {
	return fmt.Sprintf("RCP-%s-%s", at.Format("20060102"), strings.ToUpper(uuid.New().String()[:8]))
}

func (cmd *CreateSaleCommand) validate() error {
	if cmd.ActorID == 0 {
		return apperror.InvalidInput("actor is required")
	}
	if len(cmd.Items) == 0 {
		return apperror.InvalidInput("a sale needs at least one item")
	}
	if cmd.TaxAmount.IsNegative() {
		return apperror.InvalidInput("tax amount cannot be negative")
	}
	if cmd.DiscountAmount.IsNegative() {
		return apperror.InvalidInput("discount amount cannot be negative")
	}

	cmd.PaymentMethod = strings.ToLower(strings.TrimSpace(cmd.PaymentMethod))
	if !domain.ValidPaymentMethod(cmd.PaymentMethod) {
		return apperror.InvalidInput("invalid payment method %q", cmd.PaymentMethod)
	}
	cmd.PaymentStatus = strings.ToLower(strings.TrimSpace(cmd.PaymentStatus))
	if cmd.PaymentStatus == "" {
		cmd.PaymentStatus = domain.PaymentPaid
	}
	if !domain.ValidPaymentStatus(cmd.PaymentStatus) || cmd.PaymentStatus == domain.PaymentRefunded {
		return apperror.InvalidInput("invalid payment status %q", cmd.PaymentStatus)
	}

	seen := make(map[uint]bool, len(cmd.Items))
	for i, item := range cmd.Items {
		switch {
		case item.ProductID == 0:
			return apperror.InvalidInput("item %d: product id is required", i+1)
		case item.Quantity <= 0:
			return apperror.InvalidInput("item %d: quantity must be positive", i+1)
		case item.UnitPrice != nil && item.UnitPrice.IsNegative():
			return apperror.InvalidInput("item %d: unit price cannot be negative", i+1)
		case item.Discount.IsNegative():
			return apperror.InvalidInput("item %d: discount cannot be negative", i+1)
		case seen[item.ProductID]:
			return apperror.InvalidInput("product %d appears more than once", item.ProductID)
		}
		seen[item.ProductID] = true
	}
	return nil
}

type pricedLine struct {
	item      domain.SaleItem
	inventory *inventorydomain.Inventory
}

// price resolves every line against the catalog and current stock. It runs
// before any write so a bad request leaves no trace.
func (h *CreateSaleHandler) price(ctx context.Context, cmd CreateSaleCommand) ([]pricedLine, decimal.Decimal, error) {
	lines := make([]pricedLine, 0, len(cmd.Items))
	subtotal := decimal.Zero

	for i, in := range cmd.Items {
		product, err := h.products.FindByID(ctx, in.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if !product.IsActive {
			return nil, decimal.Zero, apperror.InvalidInput("product %d is not available for sale", product.ID)
		}

		inv, err := h.stock.FindByProductID(ctx, in.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if inv.Quantity < in.Quantity {
			return nil, decimal.Zero, apperror.InsufficientStock(
				"insufficient stock for %s: available %d, requested %d", product.Name, inv.Quantity, in.Quantity)
		}

		unitPrice := product.Price
		if in.UnitPrice != nil {
			unitPrice = *in.UnitPrice
		}
		unitPrice = unitPrice.Round(2)
		discount := in.Discount.Round(2)

		gross := unitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
		if discount.GreaterThan(gross) {
			return nil, decimal.Zero, apperror.InvalidInput("item %d: discount exceeds the line amount", i+1)
		}
		lineSubtotal := gross.Sub(discount)

		lines = append(lines, pricedLine{
			item: domain.SaleItem{
				ProductID: product.ID,
				Quantity:  in.Quantity,
				UnitPrice: unitPrice,
				Discount:  discount,
				Subtotal:  lineSubtotal,
			},
			inventory: inv,
		})
		subtotal = subtotal.Add(lineSubtotal)
	}
	return lines, subtotal, nil
}

// Handle validates the whole request, then writes the sale, its items and
// one sale ledger entry per item. Any failure rolls everything back.
func (h *CreateSaleHandler) Handle(ctx context.Context, cmd CreateSaleCommand) (*domain.Sale, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	if cmd.CustomerID != nil {
		if _, err := h.customers.FindByID(ctx, *cmd.CustomerID); err != nil {
			return nil, err
		}
	}

	lines, subtotal, err := h.price(ctx, cmd)
	if err != nil {
		return nil, err
	}

	tax := cmd.TaxAmount.Round(2)
	discount := cmd.DiscountAmount.Round(2)
	total := subtotal.Add(tax).Sub(discount)
	if total.IsNegative() {
		return nil, apperror.InvalidInput("discount exceeds the sale total")
	}

	now := h.now()
	sale := &domain.Sale{
		ReceiptNumber:  NewReceiptNumber(now),
		CustomerID:     cmd.CustomerID,
		UserID:         cmd.ActorID,
		Subtotal:       subtotal,
		TaxAmount:      tax,
		DiscountAmount: discount,
		TotalAmount:    total,
		PaymentMethod:  cmd.PaymentMethod,
		PaymentStatus:  cmd.PaymentStatus,
		Status:         domain.StatusCompleted,
		Notes:          strings.TrimSpace(cmd.Notes),
	}

	err = h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := h.repo.Create(ctx, sale); err != nil {
			return err
		}

		items := make([]domain.SaleItem, len(lines))
		for i, line := range lines {
			items[i] = line.item
			items[i].SaleID = sale.ID
		}
		if err := h.repo.CreateItems(ctx, items); err != nil {
			return err
		}
		sale.Items = items

		saleID := sale.ID
		for _, line := range lines {
			_, err := h.ledger.Handle(ctx, inventorycommand.AdjustQuantityCommand{
				InventoryID: line.inventory.ID,
				Delta:       -line.item.Quantity,
				Type:        inventorydomain.TypeSale,
				Reason:      "sale " + sale.ReceiptNumber,
				ActorID:     cmd.ActorID,
				SaleID:      &saleID,
			})
			if err != nil {
				return err
			}
		}

		database.AfterCommit(ctx, func(ctx context.Context) {
			h.effects.saleCompleted(ctx, sale)
		})
		return nil
	})
	if err != nil {
		logger.Warn(ctx).Err(err).Uint("actor_id", cmd.ActorID).Msg("Sale rolled back")
		return nil, err
	}

	logger.Info(ctx).
		Uint("sale_id", sale.ID).
		Str("receipt_number", sale.ReceiptNumber).
		Int("items", len(sale.Items)).
		Str("total", sale.TotalAmount.StringFixed(2)).
		Uint("actor_id", cmd.ActorID).
		Msg("Sale completed")

	return h.repo.FindByID(ctx, sale.ID)
}
