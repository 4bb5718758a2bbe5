package query

import (
	"context"

	"github.com/tair/grocery-pos/internal/user/domain"
	"github.com/tair/grocery-pos/pkg/auth"
)

// UserStats represents user statistics
type UserStats struct {
	TotalUsers       int64            `json:"total_users"`
	ActiveUsers      int64            `json:"active_users"`
	DeactivatedUsers int64            `json:"deactivated_users"`
	ByRole           map[string]int64 `json:"by_role"`
}

// GetStatsHandler handles get stats query
type GetStatsHandler struct {
	repo domain.UserRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.UserRepository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle executes the get stats query
func (h *GetStatsHandler) Handle(ctx context.Context) (*UserStats, error) {
	stats := &UserStats{ByRole: make(map[string]int64)}

	var err error
	if stats.TotalUsers, err = h.repo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveUsers, err = h.repo.CountBy(ctx, "status", domain.StatusActive); err != nil {
		return nil, err
	}
	if stats.DeactivatedUsers, err = h.repo.CountBy(ctx, "status", domain.StatusDeactivated); err != nil {
		return nil, err
	}
	for _, role := range []string{auth.RoleAdmin, auth.RoleManager, auth.RoleCashier} {
		n, err := h.repo.CountBy(ctx, "role", role)
		if err != nil {
			return nil, err
		}
		stats.ByRole[role] = n
	}
	return stats, nil
}
