package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/grocery-pos/internal/user/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/auth"
)

// UpdateProfileCommand changes the contact details of a user
type UpdateProfileCommand struct {
	UserID   uint
	Email    *string
	FullName *string
}

type UpdateProfileHandler struct {
	repo domain.UserRepository
}

func NewUpdateProfileHandler(repo domain.UserRepository) *UpdateProfileHandler {
	return &UpdateProfileHandler{repo: repo}
}

func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (*domain.User, error) {
	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	if cmd.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*cmd.Email))
		if !validEmail(email) {
			return nil, apperror.InvalidInput("invalid email %q", email)
		}
		user.Email = email
	}
	if cmd.FullName != nil {
		name := strings.TrimSpace(*cmd.FullName)
		if name == "" {
			return nil, apperror.InvalidInput("full name cannot be empty")
		}
		user.FullName = name
	}

	if err := h.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePasswordCommand replaces a password after checking the current one
type ChangePasswordCommand struct {
	UserID          uint
	CurrentPassword string
	NewPassword     string
}

type ChangePasswordHandler struct {
	repo domain.UserRepository
}

func NewChangePasswordHandler(repo domain.UserRepository) *ChangePasswordHandler {
	return &ChangePasswordHandler{repo: repo}
}

func (h *ChangePasswordHandler) Handle(ctx context.Context, cmd ChangePasswordCommand) error {
	if len(cmd.NewPassword) < minPasswordLength {
		return apperror.InvalidInput("password must be at least %d characters", minPasswordLength)
	}

	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.Password, cmd.CurrentPassword) {
		return apperror.InvalidInput("current password is incorrect")
	}

	hashed, err := auth.HashPassword(cmd.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashed
	return h.repo.Update(ctx, user)
}
