package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tair/grocery-pos/internal/app"
	"github.com/tair/grocery-pos/internal/testutil"
	"github.com/tair/grocery-pos/pkg/config"
	"github.com/tair/grocery-pos/pkg/health"
)

func TestRouterServesOperationalAndAPIRoutes(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTTTL:           time.Hour,
		NotificationSink: config.SinkDirect,
	}
	if rdb := newRedis(cfg); rdb != nil {
		t.Fatal("newRedis without an address should return nil")
	}
	server, err := app.InitializeServer(cfg, testutil.NewDB(t), nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	router := newRouter(cfg, server, health.NewChecker("grocery-pos"), nil, nil)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"health", "/health", http.StatusOK},
		{"api needs a token", "/api/sales", http.StatusUnauthorized},
		{"swagger document", "/swagger/doc.json", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("GET %s = %d, want %d (body %s)", tt.path, rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}
