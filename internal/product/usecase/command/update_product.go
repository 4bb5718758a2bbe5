package command

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tair/grocery-pos/internal/product/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
)

// UpdateProductCommand carries a partial update; nil fields are left unchanged
type UpdateProductCommand struct {
	ID          uint
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Cost        *decimal.Decimal
	Category    *string
	Barcode     *string
	IsActive    *bool
}

// UpdateProductHandler handles product update command
type UpdateProductHandler struct {
	repo domain.ProductRepository
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.ProductRepository) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo}
}

// Handle executes the update product command. Historical sale lines keep the
// price they were sold at.
func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	if cmd.ID == 0 {
		return nil, apperror.InvalidInput("invalid product id")
	}

	product, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		if name == "" {
			return nil, apperror.InvalidInput("product name cannot be empty")
		}
		product.Name = name
	}
	if cmd.Description != nil {
		product.Description = *cmd.Description
	}
	if cmd.Price != nil {
		if cmd.Price.IsNegative() {
			return nil, apperror.InvalidInput("price cannot be negative")
		}
		product.Price = cmd.Price.Round(2)
	}
	if cmd.Cost != nil {
		if cmd.Cost.IsNegative() {
			return nil, apperror.InvalidInput("cost cannot be negative")
		}
		product.Cost = cmd.Cost.Round(2)
	}
	if cmd.Category != nil {
		product.Category = strings.TrimSpace(*cmd.Category)
	}
	if cmd.Barcode != nil {
		barcode := strings.TrimSpace(*cmd.Barcode)
		if barcode == "" {
			return nil, apperror.InvalidInput("barcode cannot be empty")
		}
		existing, err := h.repo.FindByBarcode(ctx, barcode)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != product.ID {
			return nil, apperror.Conflict("barcode %s already exists", barcode)
		}
		product.Barcode = barcode
	}
	if cmd.IsActive != nil {
		product.IsActive = *cmd.IsActive
	}

	if err := h.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}
