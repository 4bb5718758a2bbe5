package command

import (
	"context"

	"github.com/tair/grocery-pos/internal/user/domain"
	"github.com/tair/grocery-pos/pkg/auth"
	"github.com/tair/grocery-pos/pkg/logger"
)

// BootstrapAdmin creates the first admin account when the user table is
// empty. It reports whether an account was created.
func BootstrapAdmin(ctx context.Context, repo domain.UserRepository, register *RegisterUserHandler, username, password, email string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	n, err := repo.Count(ctx)
	if err != nil || n > 0 {
		return false, err
	}

	user, err := register.Handle(ctx, RegisterUserCommand{
		Username: username,
		Email:    email,
		Password: password,
		FullName: "Administrator",
		Role:     auth.RoleAdmin,
	})
	if err != nil {
		return false, err
	}

	logger.Info(ctx).Uint("user_id", user.ID).Msg("Bootstrap admin created")
	return true, nil
}
