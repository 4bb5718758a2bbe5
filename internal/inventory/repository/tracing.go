package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/grocery-pos/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// TracingInventoryRepository adds spans around the ledger hot path. Methods
// that are not overridden pass straight through to the wrapped repository.
type TracingInventoryRepository struct {
	domain.InventoryRepository
}

// NewTracingInventoryRepository wraps repo with tracing
func NewTracingInventoryRepository(repo domain.InventoryRepository) *TracingInventoryRepository {
	return &TracingInventoryRepository{InventoryRepository: repo}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// FindByIDForUpdate with tracing
func (r *TracingInventoryRepository) FindByIDForUpdate(ctx context.Context, id uint) (inv *domain.Inventory, err error) {
	ctx, span := tracer.Start(ctx, "repository.FindByIDForUpdate",
		trace.WithAttributes(
			attribute.Int("inventory.id", int(id)),
		),
	)
	defer func() { endSpan(span, err) }()

	inv, err = r.InventoryRepository.FindByIDForUpdate(ctx, id)
	if err == nil {
		span.SetAttributes(
			attribute.Int("inventory.product_id", int(inv.ProductID)),
			attribute.Int("inventory.quantity", inv.Quantity),
			attribute.Int("inventory.min_stock_level", inv.MinStockLevel),
		)
	}
	return inv, err
}

// ApplyDelta with tracing
func (r *TracingInventoryRepository) ApplyDelta(ctx context.Context, id uint, delta int) (applied bool, err error) {
	ctx, span := tracer.Start(ctx, "repository.ApplyDelta",
		trace.WithAttributes(
			attribute.Int("inventory.id", int(id)),
			attribute.Int("quantity.delta", delta),
		),
	)
	defer func() { endSpan(span, err) }()

	applied, err = r.InventoryRepository.ApplyDelta(ctx, id, delta)
	span.SetAttributes(attribute.Bool("quantity.applied", applied))
	return applied, err
}

// CreateTransaction with tracing
func (r *TracingInventoryRepository) CreateTransaction(ctx context.Context, tx *domain.InventoryTransaction) (err error) {
	ctx, span := tracer.Start(ctx, "repository.CreateTransaction",
		trace.WithAttributes(
			attribute.Int("inventory.id", int(tx.InventoryID)),
			attribute.String("ledger.type", tx.Type),
			attribute.Int("ledger.quantity", tx.Quantity),
			attribute.Int("ledger.previous_quantity", tx.PreviousQuantity),
			attribute.Int("ledger.new_quantity", tx.NewQuantity),
		),
	)
	defer func() { endSpan(span, err) }()

	err = r.InventoryRepository.CreateTransaction(ctx, tx)
	if err == nil {
		span.SetAttributes(attribute.Int("ledger.id", int(tx.ID)))
	}
	return err
}

// FindByProductID with tracing
func (r *TracingInventoryRepository) FindByProductID(ctx context.Context, productID uint) (inv *domain.Inventory, err error) {
	ctx, span := tracer.Start(ctx, "repository.FindByProductID",
		trace.WithAttributes(
			attribute.Int("inventory.product_id", int(productID)),
		),
	)
	defer func() { endSpan(span, err) }()

	inv, err = r.InventoryRepository.FindByProductID(ctx, productID)
	if err == nil {
		span.SetAttributes(
			attribute.Int("inventory.id", int(inv.ID)),
			attribute.Int("inventory.quantity", inv.Quantity),
		)
	}
	return inv, err
}
