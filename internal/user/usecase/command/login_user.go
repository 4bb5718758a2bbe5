package command

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/grocery-pos/internal/user/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/auth"
	"github.com/tair/grocery-pos/pkg/logger"
)

// LoginUserCommand represents the command to login a user
type LoginUserCommand struct {
	Username string
	Password string
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
	User      *domain.User `json:"user"`
}

// LoginUserHandler handles user login command
type LoginUserHandler struct {
	repo   domain.UserRepository
	tokens *auth.TokenManager
	now    func() time.Time
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(repo domain.UserRepository, tokens *auth.TokenManager) *LoginUserHandler {
	return &LoginUserHandler{repo: repo, tokens: tokens, now: time.Now}
}

// Handle checks the credentials of an active user and issues a token
func (h *LoginUserHandler) Handle(ctx context.Context, cmd LoginUserCommand) (*LoginResponse, error) {
	if cmd.Username == "" || cmd.Password == "" {
		return nil, apperror.InvalidInput("username and password are required")
	}

	user, err := h.repo.FindByUsername(ctx, cmd.Username)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindNotFound {
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, err
	}
	if !auth.CheckPassword(user.Password, cmd.Password) {
		return nil, apperror.Unauthorized("invalid credentials")
	}
	if !user.IsActive() {
		logger.Warn(ctx).Uint("user_id", user.ID).Msg("Login attempt on deactivated account")
		return nil, apperror.Unauthorized("account is deactivated")
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := h.now()
	if err := h.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		logger.Warn(ctx).Err(err).Uint("user_id", user.ID).Msg("Could not record last login")
	} else {
		user.LastLoginAt = &now
	}

	return &LoginResponse{
		Token:     token,
		ExpiresIn: int64(h.tokens.TTL().Seconds()),
		User:      user,
	}, nil
}
