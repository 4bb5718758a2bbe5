package query

import (
	"context"
	"time"

	"github.com/tair/grocery-pos/internal/inventory/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
)

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ListInventoryQuery represents the query to list inventories
type ListInventoryQuery struct {
	Limit  int
	Offset int
}

// InventoryPage is one page of inventory rows
type InventoryPage struct {
	Inventory []domain.Inventory `json:"inventory"`
	Total     int64              `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

// ListInventoryHandler handles list inventory query
type ListInventoryHandler struct {
	repo        domain.InventoryRepository
	warningDays int
	now         func() time.Time
}

// NewListInventoryHandler creates a new list inventory handler. warningDays
// is the default window of Expiring.
func NewListInventoryHandler(repo domain.InventoryRepository, warningDays int) *ListInventoryHandler {
	if warningDays <= 0 {
		warningDays = 7
	}
	return &ListInventoryHandler{repo: repo, warningDays: warningDays, now: time.Now}
}

// Handle executes the list inventory query
func (h *ListInventoryHandler) Handle(ctx context.Context, query ListInventoryQuery) (*InventoryPage, error) {
	limit, offset := clampPage(query.Limit, query.Offset)

	rows, total, err := h.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &InventoryPage{Inventory: rows, Total: total, Limit: limit, Offset: offset}, nil
}

// LowStock lists rows at or below their minimum stock level
func (h *ListInventoryHandler) LowStock(ctx context.Context) ([]domain.Inventory, error) {
	return h.repo.ListLowStock(ctx)
}

// Expiring lists rows whose expiry date falls within days from now,
// including rows that already expired. Zero days means the default window.
func (h *ListInventoryHandler) Expiring(ctx context.Context, days int) ([]domain.Inventory, error) {
	if days < 0 {
		return nil, apperror.InvalidInput("days cannot be negative")
	}
	if days == 0 {
		days = h.warningDays
	}
	return h.repo.ListExpiringBefore(ctx, h.now().Add(time.Duration(days)*24*time.Hour))
}

// ListTransactionsQuery pages through the ledger of one inventory row
type ListTransactionsQuery struct {
	InventoryID uint
	Limit       int
	Offset      int
}

// TransactionPage is one page of ledger entries, newest first
type TransactionPage struct {
	Transactions []domain.InventoryTransaction `json:"transactions"`
	Total        int64                         `json:"total"`
	Limit        int                           `json:"limit"`
	Offset       int                           `json:"offset"`
}

type ListTransactionsHandler struct {
	repo domain.InventoryRepository
}

func NewListTransactionsHandler(repo domain.InventoryRepository) *ListTransactionsHandler {
	return &ListTransactionsHandler{repo: repo}
}

func (h *ListTransactionsHandler) Handle(ctx context.Context, query ListTransactionsQuery) (*TransactionPage, error) {
	if _, err := h.repo.FindByID(ctx, query.InventoryID); err != nil {
		return nil, err
	}

	limit, offset := clampPage(query.Limit, query.Offset)
	txs, total, err := h.repo.ListTransactions(ctx, query.InventoryID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &TransactionPage{Transactions: txs, Total: total, Limit: limit, Offset: offset}, nil
}
