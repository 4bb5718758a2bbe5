package query

import (
	"context"

	"github.com/tair/grocery-pos/internal/user/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/auth"
)

// GetUserHandler handles get user query
type GetUserHandler struct {
	repo domain.UserRepository
}

// NewGetUserHandler creates a new get user handler
func NewGetUserHandler(repo domain.UserRepository) *GetUserHandler {
	return &GetUserHandler{repo: repo}
}

func (h *GetUserHandler) Handle(ctx context.Context, id uint) (*domain.User, error) {
	return h.repo.FindByID(ctx, id)
}

// ListUsersQuery filters users by role and status
type ListUsersQuery struct {
	Role   string
	Status string
	Limit  int
	Offset int
}

type UserPage struct {
	Users  []domain.User `json:"users"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// ListUsersHandler handles list users query
type ListUsersHandler struct {
	repo domain.UserRepository
}

// NewListUsersHandler creates a new list users handler
func NewListUsersHandler(repo domain.UserRepository) *ListUsersHandler {
	return &ListUsersHandler{repo: repo}
}

func (h *ListUsersHandler) Handle(ctx context.Context, q ListUsersQuery) (*UserPage, error) {
	if q.Role != "" && !auth.ValidRole(q.Role) {
		return nil, apperror.InvalidInput("invalid role %q", q.Role)
	}
	if q.Status != "" && q.Status != domain.StatusActive && q.Status != domain.StatusDeactivated {
		return nil, apperror.InvalidInput("invalid status %q", q.Status)
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 50
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	users, total, err := h.repo.List(ctx, domain.Filter{
		Role:   q.Role,
		Status: q.Status,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: users, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}
