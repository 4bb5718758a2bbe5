package command

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/tair/grocery-pos/internal/user/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/auth"
	"github.com/tair/grocery-pos/pkg/logger"
)

const minPasswordLength = 6

// RegisterUserCommand represents the command to create an account
type RegisterUserCommand struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     string // Optional, defaults to cashier
}

// RegisterUserHandler handles user registration command
type RegisterUserHandler struct {
	repo domain.UserRepository
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.UserRepository) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func (cmd *RegisterUserCommand) validate() error {
	cmd.Username = strings.TrimSpace(cmd.Username)
	cmd.Email = strings.ToLower(strings.TrimSpace(cmd.Email))
	cmd.FullName = strings.TrimSpace(cmd.FullName)

	switch {
	case cmd.Username == "":
		return apperror.InvalidInput("username is required")
	case cmd.Email == "":
		return apperror.InvalidInput("email is required")
	case !validEmail(cmd.Email):
		return apperror.InvalidInput("invalid email %q", cmd.Email)
	case len(cmd.Password) < minPasswordLength:
		return apperror.InvalidInput("password must be at least %d characters", minPasswordLength)
	case cmd.FullName == "":
		return apperror.InvalidInput("full name is required")
	}

	if cmd.Role == "" {
		cmd.Role = auth.RoleCashier
	}
	if !auth.ValidRole(cmd.Role) {
		return apperror.InvalidInput("invalid role %q", cmd.Role)
	}
	return nil
}

// Handle executes the register user command
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*domain.User, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username: cmd.Username,
		Email:    cmd.Email,
		Password: hashedPassword,
		FullName: cmd.FullName,
		Role:     cmd.Role,
		Status:   domain.StatusActive,
	}
	if err := h.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("user_id", user.ID).
		Str("username", user.Username).
		Str("role", user.Role).
		Msg("User registered")
	return user, nil
}
