package query

import (
	"context"

	"github.com/tair/grocery-pos/internal/customer/domain"
)

type GetCustomerHandler struct {
	repo domain.CustomerRepository
}

func NewGetCustomerHandler(repo domain.CustomerRepository) *GetCustomerHandler {
	return &GetCustomerHandler{repo: repo}
}

func (h *GetCustomerHandler) Handle(ctx context.Context, id uint) (*domain.Customer, error) {
	return h.repo.FindByID(ctx, id)
}

// ListCustomersQuery searches name, email and phone
type ListCustomersQuery struct {
	Search string
	Limit  int
	Offset int
}

type CustomerPage struct {
	Customers []domain.Customer `json:"customers"`
	Total     int64             `json:"total"`
	Limit     int               `json:"limit"`
	Offset    int               `json:"offset"`
}

type ListCustomersHandler struct {
	repo domain.CustomerRepository
}

func NewListCustomersHandler(repo domain.CustomerRepository) *ListCustomersHandler {
	return &ListCustomersHandler{repo: repo}
}

func (h *ListCustomersHandler) Handle(ctx context.Context, q ListCustomersQuery) (*CustomerPage, error) {
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	rows, total, err := h.repo.List(ctx, q.Search, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	return &CustomerPage{Customers: rows, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}
