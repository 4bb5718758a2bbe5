package query

import (
	"context"
	"time"

	"github.com/tair/grocery-pos/internal/sale/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/auth"
)

// GetSaleHandler loads a sale with items, products and customer
type GetSaleHandler struct {
	repo domain.SaleRepository
}

func NewGetSaleHandler(repo domain.SaleRepository) *GetSaleHandler {
	return &GetSaleHandler{repo: repo}
}

// Handle hides sales rung up by other cashiers behind a not-found error
func (h *GetSaleHandler) Handle(ctx context.Context, id uint, actor auth.Actor) (*domain.Sale, error) {
	sale, err := h.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == auth.RoleCashier && sale.UserID != actor.ID {
		return nil, apperror.NotFound("sale %d not found", id)
	}
	return sale, nil
}

// ListSalesQuery filters sales. To is exclusive.
type ListSalesQuery struct {
	From       time.Time
	To         time.Time
	Status     string
	CustomerID *uint
	UserID     *uint
	Limit      int
	Offset     int
}

type SalePage struct {
	Sales  []domain.Sale `json:"sales"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

type ListSalesHandler struct {
	repo domain.SaleRepository
}

func NewListSalesHandler(repo domain.SaleRepository) *ListSalesHandler {
	return &ListSalesHandler{repo: repo}
}

func (h *ListSalesHandler) Handle(ctx context.Context, q ListSalesQuery) (*SalePage, error) {
	switch q.Status {
	case "", domain.StatusPending, domain.StatusCompleted, domain.StatusCancelled:
	default:
		return nil, apperror.InvalidInput("invalid status %q", q.Status)
	}
	if !q.From.IsZero() && !q.To.IsZero() && !q.To.After(q.From) {
		return nil, apperror.InvalidInput("to must be after from")
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	sales, total, err := h.repo.List(ctx, domain.Filter{
		From:       q.From,
		To:         q.To,
		Status:     q.Status,
		CustomerID: q.CustomerID,
		UserID:     q.UserID,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &SalePage{Sales: sales, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}
