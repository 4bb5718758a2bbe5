package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tair/grocery-pos/internal/product/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/logger"
)

// barcodeAttempts bounds retries when a generated barcode collides
const barcodeAttempts = 5

// CreateProductCommand represents the command to create a new product
type CreateProductCommand struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Cost        decimal.Decimal
	Category    string
	Barcode     string
	IsActive    *bool
}

// CreateProductHandler handles product creation command
type CreateProductHandler struct {
	repo     domain.ProductRepository
	barcodes func() (string, error)
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository) *CreateProductHandler {
	return &CreateProductHandler{repo: repo, barcodes: domain.GenerateBarcode}
}

// Handle executes the create product command
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.Barcode = strings.TrimSpace(cmd.Barcode)

	if cmd.Name == "" {
		return nil, apperror.InvalidInput("product name is required")
	}
	if cmd.Price.IsNegative() {
		return nil, apperror.InvalidInput("price cannot be negative")
	}
	if cmd.Cost.IsNegative() {
		return nil, apperror.InvalidInput("cost cannot be negative")
	}

	if cmd.Barcode == "" {
		barcode, err := h.uniqueBarcode(ctx)
		if err != nil {
			return nil, err
		}
		cmd.Barcode = barcode
	} else if existing, err := h.repo.FindByBarcode(ctx, cmd.Barcode); err == nil && existing != nil {
		return nil, apperror.Conflict("barcode %s already exists", cmd.Barcode)
	} else if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	active := true
	if cmd.IsActive != nil {
		active = *cmd.IsActive
	}

	product := &domain.Product{
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price.Round(2),
		Cost:        cmd.Cost.Round(2),
		Category:    strings.TrimSpace(cmd.Category),
		Barcode:     cmd.Barcode,
		IsActive:    active,
	}

	if err := h.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("product_id", product.ID).
		Str("barcode", product.Barcode).
		Msg("Product created")
	return product, nil
}

func (h *CreateProductHandler) uniqueBarcode(ctx context.Context) (string, error) {
	for i := 0; i < barcodeAttempts; i++ {
		barcode, err := h.barcodes()
		if err != nil {
			return "", err
		}
		_, err = h.repo.FindByBarcode(ctx, barcode)
		if errors.Is(err, apperror.ErrNotFound) {
			return barcode, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("could not generate a unique barcode after %d attempts", barcodeAttempts)
}
