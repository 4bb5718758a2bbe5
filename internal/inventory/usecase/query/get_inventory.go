package query

import (
	"context"

	"github.com/tair/grocery-pos/internal/inventory/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
)

// GetInventoryQuery selects a row by id or, when ID is zero, by product
type GetInventoryQuery struct {
	ID        uint
	ProductID uint
}

// GetInventoryHandler handles get inventory query
type GetInventoryHandler struct {
	repo domain.InventoryRepository
}

// NewGetInventoryHandler creates a new get inventory handler
func NewGetInventoryHandler(repo domain.InventoryRepository) *GetInventoryHandler {
	return &GetInventoryHandler{repo: repo}
}

// Handle executes the get inventory query
func (h *GetInventoryHandler) Handle(ctx context.Context, query GetInventoryQuery) (*domain.Inventory, error) {
	switch {
	case query.ID != 0:
		return h.repo.FindByID(ctx, query.ID)
	case query.ProductID != 0:
		return h.repo.FindByProductID(ctx, query.ProductID)
	default:
		return nil, apperror.InvalidInput("inventory id or product id is required")
	}
}

// Availability answers whether a product can cover a requested quantity
type Availability struct {
	ProductID  uint `json:"product_id"`
	Requested  int  `json:"requested"`
	Available  int  `json:"available"`
	Sufficient bool `json:"sufficient"`
}

// CheckAvailabilityHandler reports stock for a product against a quantity
type CheckAvailabilityHandler struct {
	repo domain.InventoryRepository
}

func NewCheckAvailabilityHandler(repo domain.InventoryRepository) *CheckAvailabilityHandler {
	return &CheckAvailabilityHandler{repo: repo}
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, productID uint, quantity int) (*Availability, error) {
	if quantity <= 0 {
		return nil, apperror.InvalidInput("quantity must be positive")
	}

	inv, err := h.repo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &Availability{
		ProductID:  productID,
		Requested:  quantity,
		Available:  inv.Quantity,
		Sufficient: inv.Quantity >= quantity,
	}, nil
}
