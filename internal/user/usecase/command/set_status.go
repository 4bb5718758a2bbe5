package command

import (
	"context"

	"github.com/tair/grocery-pos/internal/user/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/logger"
)

// SetStatusCommand deactivates or reactivates an account (admin only)
type SetStatusCommand struct {
	ActorID uint
	UserID  uint
	Status  string
}

type SetStatusHandler struct {
	repo domain.UserRepository
}

func NewSetStatusHandler(repo domain.UserRepository) *SetStatusHandler {
	return &SetStatusHandler{repo: repo}
}

// Handle moves the user to the requested status. Deactivated users cannot
// log in and receive no stock alerts; their sales and ledger rows remain.
func (h *SetStatusHandler) Handle(ctx context.Context, cmd SetStatusCommand) (*domain.User, error) {
	if cmd.Status != domain.StatusActive && cmd.Status != domain.StatusDeactivated {
		return nil, apperror.InvalidInput("invalid status %q", cmd.Status)
	}
	if cmd.ActorID == cmd.UserID && cmd.Status == domain.StatusDeactivated {
		return nil, apperror.Forbidden("cannot deactivate your own account")
	}

	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if user.Status == cmd.Status {
		return user, nil
	}

	user.Status = cmd.Status
	if err := h.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("user_id", user.ID).
		Uint("actor_id", cmd.ActorID).
		Str("status", user.Status).
		Msg("User status changed")
	return user, nil
}
