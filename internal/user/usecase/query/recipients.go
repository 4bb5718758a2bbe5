package query

import (
	"context"

	"github.com/tair/grocery-pos/internal/user/domain"
	"github.com/tair/grocery-pos/pkg/auth"
)

// StockRecipients resolves the active admins and managers that receive
// stock alerts
type StockRecipients struct {
	repo domain.UserRepository
}

func NewStockRecipients(repo domain.UserRepository) *StockRecipients {
	return &StockRecipients{repo: repo}
}

func (s *StockRecipients) ActiveStockRecipients(ctx context.Context) ([]uint, error) {
	return s.repo.ActiveIDsByRole(ctx, auth.RoleAdmin, auth.RoleManager)
}
