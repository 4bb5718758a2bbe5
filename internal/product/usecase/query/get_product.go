package query

import (
	"context"
	"strings"

	"github.com/tair/grocery-pos/internal/product/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
)

// GetProductQuery looks a product up by id or, when ID is zero, by barcode
type GetProductQuery struct {
	ID      uint
	Barcode string
}

// GetProductHandler handles get product query
type GetProductHandler struct {
	repo domain.ProductRepository
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(repo domain.ProductRepository) *GetProductHandler {
	return &GetProductHandler{repo: repo}
}

// Handle executes the get product query
func (h *GetProductHandler) Handle(ctx context.Context, query GetProductQuery) (*domain.Product, error) {
	if query.ID != 0 {
		return h.repo.FindByID(ctx, query.ID)
	}

	barcode := strings.TrimSpace(query.Barcode)
	if barcode == "" {
		return nil, apperror.InvalidInput("product id or barcode is required")
	}
	return h.repo.FindByBarcode(ctx, barcode)
}
