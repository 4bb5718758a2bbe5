package command

import (
	"context"

	"github.com/tair/grocery-pos/internal/user/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/auth"
	"github.com/tair/grocery-pos/pkg/logger"
)

// ChangeRoleCommand represents the command to change a user's role (admin only)
type ChangeRoleCommand struct {
	ActorID uint
	UserID  uint
	Role    string
}

// ChangeRoleHandler handles change role command
type ChangeRoleHandler struct {
	repo domain.UserRepository
}

// NewChangeRoleHandler creates a new change role handler
func NewChangeRoleHandler(repo domain.UserRepository) *ChangeRoleHandler {
	return &ChangeRoleHandler{repo: repo}
}

// Handle executes the change role command. Admins cannot change their own role.
func (h *ChangeRoleHandler) Handle(ctx context.Context, cmd ChangeRoleCommand) (*domain.User, error) {
	if !auth.ValidRole(cmd.Role) {
		return nil, apperror.InvalidInput("invalid role %q", cmd.Role)
	}
	if cmd.ActorID == cmd.UserID {
		return nil, apperror.Forbidden("cannot change your own role")
	}

	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if user.Role == cmd.Role {
		return user, nil
	}

	previous := user.Role
	user.Role = cmd.Role
	if err := h.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("user_id", user.ID).
		Uint("actor_id", cmd.ActorID).
		Str("from", previous).
		Str("to", user.Role).
		Msg("User role changed")
	return user, nil
}
