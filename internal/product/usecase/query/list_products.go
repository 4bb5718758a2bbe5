package query

import (
	"context"

	"github.com/tair/grocery-pos/internal/product/domain"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ListProductsQuery represents the query to list products
type ListProductsQuery struct {
	Category string
	Search   string
	Active   *bool
	Limit    int
	Offset   int
}

// ProductPage is one page of products plus the total match count
type ProductPage struct {
	Products []domain.Product `json:"products"`
	Total    int64            `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	repo domain.ProductRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.ProductRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle executes the list products query
func (h *ListProductsHandler) Handle(ctx context.Context, query ListProductsQuery) (*ProductPage, error) {
	if query.Limit <= 0 {
		query.Limit = defaultLimit
	}
	if query.Limit > maxLimit {
		query.Limit = maxLimit
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	products, total, err := h.repo.List(ctx, domain.Filter{
		Category: query.Category,
		Search:   query.Search,
		Active:   query.Active,
		Limit:    query.Limit,
		Offset:   query.Offset,
	})
	if err != nil {
		return nil, err
	}

	return &ProductPage{
		Products: products,
		Total:    total,
		Limit:    query.Limit,
		Offset:   query.Offset,
	}, nil
}

// ListCategoriesHandler returns the distinct product categories
type ListCategoriesHandler struct {
	repo domain.ProductRepository
}

func NewListCategoriesHandler(repo domain.ProductRepository) *ListCategoriesHandler {
	return &ListCategoriesHandler{repo: repo}
}

func (h *ListCategoriesHandler) Handle(ctx context.Context) ([]string, error) {
	return h.repo.Categories(ctx)
}
