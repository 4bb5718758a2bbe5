package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/grocery-pos/pkg/auth"
	"github.com/tair/grocery-pos/pkg/logger"
)

func newAuthenticator(t *testing.T) (*Authenticator, *auth.TokenManager) {
	t.Helper()
	tokens := auth.NewTokenManager("middleware-secret", time.Hour)
	return NewAuthenticator(tokens), tokens
}

func bearer(t *testing.T, tokens *auth.TokenManager, role string) string {
	t.Helper()
	token, err := tokens.GenerateToken(3, "till-3", role)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + token
}

func TestRequireRejectsMissingToken(t *testing.T) {
	a, _ := newAuthenticator(t)
	h := a.RequireRoles()(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRejectsMalformedHeader(t *testing.T) {
	a, _ := newAuthenticator(t)
	h := a.RequireRoles()(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireEnforcesRole(t *testing.T) {
	a, tokens := newAuthenticator(t)
	h := a.RequireRoles(auth.RoleAdmin, auth.RoleManager)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		role string
		want int
	}{
		{auth.RoleCashier, http.StatusForbidden},
		{auth.RoleManager, http.StatusNoContent},
		{auth.RoleAdmin, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", bearer(t, tokens, tt.role))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestAuthenticatePutsActorInContext(t *testing.T) {
	a, tokens := newAuthenticator(t)
	var got auth.Actor
	h := a.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ActorFrom(r)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearer(t, tokens, auth.RoleCashier))
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got.ID != 3 || got.Username != "till-3" || got.Role != auth.RoleCashier {
		t.Fatalf("unexpected actor %+v", got)
	}
}

func TestRequestIDIsGeneratedAndPropagated(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get("X-Request-ID") != seen {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seen, rec.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "abc" {
		t.Fatalf("incoming request id should be kept, got %q", seen)
	}
}

func TestRecoveryReturns500(t *testing.T) {
	h := Recovery()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestRateLimiterWithoutRedisPassesThrough(t *testing.T) {
	var rl *RateLimiter
	called := false
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Fatal("nil limiter must not block requests")
	}

	called = false
	h = NewRateLimiter(nil, 10, time.Minute).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Fatal("limiter without redis must not block requests")
	}
}

func TestRouteTemplateUsesMuxRoute(t *testing.T) {
	router := mux.NewRouter()
	var route string
	router.HandleFunc("/api/sales/{id}", func(w http.ResponseWriter, r *http.Request) {
		route = routeTemplate(r)
	})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/sales/42", nil))
	if route != "/api/sales/{id}" {
		t.Fatalf("route = %q", route)
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	if got := clientIP(req); got != "10.0.0.1" {
		t.Fatalf("clientIP = %q", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := clientIP(req); got != "203.0.113.9" {
		t.Fatalf("clientIP = %q", got)
	}
}
