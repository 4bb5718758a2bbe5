package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/auth"
	"github.com/tair/grocery-pos/pkg/response"
)

type actorKey struct{}

// WithActor stores the authenticated actor in ctx
func WithActor(ctx context.Context, actor auth.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor placed in the request context by Authenticator
func ActorFrom(r *http.Request) (auth.Actor, bool) {
	actor, ok := r.Context().Value(actorKey{}).(auth.Actor)
	return actor, ok
}

// Authenticator validates bearer tokens and enforces roles on routes
type Authenticator struct {
	tokens *auth.TokenManager
}

func NewAuthenticator(tokens *auth.TokenManager) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Authenticate rejects requests without a valid bearer token
func (a *Authenticator) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Fail(w, http.StatusUnauthorized, apperror.KindUnauthorized, "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Fail(w, http.StatusUnauthorized, apperror.KindUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := a.tokens.ValidateToken(parts[1])
		if err != nil {
			response.Fail(w, http.StatusUnauthorized, apperror.KindUnauthorized, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), claims.Actor())))
	}
}

// RequireRoles authenticates the request and then checks the actor's role.
// With no roles any authenticated user passes.
func (a *Authenticator) RequireRoles(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return a.Authenticate(func(w http.ResponseWriter, r *http.Request) {
			actor, _ := ActorFrom(r)
			if len(roles) > 0 && !actor.HasRole(roles...) {
				response.Fail(w, http.StatusForbidden, apperror.KindForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
