package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/grocery-pos/internal/user/domain"
)

var tracer = otel.Tracer("user-repository")

// TracingUserRepository wraps a UserRepository with spans on the
// authentication and recipient lookups
type TracingUserRepository struct {
	domain.UserRepository
}

func NewTracingUserRepository(repo domain.UserRepository) *TracingUserRepository {
	return &TracingUserRepository{UserRepository: repo}
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Create with tracing
func (r *TracingUserRepository) Create(ctx context.Context, user *domain.User) (err error) {
	ctx, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("user.username", user.Username),
			attribute.String("user.role", user.Role),
		),
	)
	defer func() { finish(span, err) }()

	if err = r.UserRepository.Create(ctx, user); err == nil {
		span.SetAttributes(attribute.Int("user.id", int(user.ID)))
	}
	return err
}

// FindByUsername with tracing
func (r *TracingUserRepository) FindByUsername(ctx context.Context, username string) (user *domain.User, err error) {
	ctx, span := tracer.Start(ctx, "repository.FindByUsername",
		trace.WithAttributes(attribute.String("user.username", username)),
	)
	defer func() { finish(span, err) }()

	user, err = r.UserRepository.FindByUsername(ctx, username)
	if err == nil {
		span.SetAttributes(
			attribute.Int("user.id", int(user.ID)),
			attribute.String("user.status", user.Status),
		)
	}
	return user, err
}

// ActiveIDsByRole with tracing
func (r *TracingUserRepository) ActiveIDsByRole(ctx context.Context, roles ...string) (ids []uint, err error) {
	ctx, span := tracer.Start(ctx, "repository.ActiveIDsByRole",
		trace.WithAttributes(attribute.StringSlice("user.roles", roles)),
	)
	defer func() { finish(span, err) }()

	ids, err = r.UserRepository.ActiveIDsByRole(ctx, roles...)
	span.SetAttributes(attribute.Int("user.count", len(ids)))
	return ids, err
}
