package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	customerrepo "github.com/tair/grocery-pos/internal/customer/repository"
	customercommand "github.com/tair/grocery-pos/internal/customer/usecase/command"
	inventorydomain "github.com/tair/grocery-pos/internal/inventory/domain"
	inventoryrepo "github.com/tair/grocery-pos/internal/inventory/repository"
	inventorycommand "github.com/tair/grocery-pos/internal/inventory/usecase/command"
	productdomain "github.com/tair/grocery-pos/internal/product/domain"
	productrepo "github.com/tair/grocery-pos/internal/product/repository"
	salehttp "github.com/tair/grocery-pos/internal/sale/delivery/http"
	"github.com/tair/grocery-pos/internal/sale/repository"
	"github.com/tair/grocery-pos/internal/sale/usecase/command"
	"github.com/tair/grocery-pos/internal/sale/usecase/query"
	"github.com/tair/grocery-pos/internal/testutil"
	"github.com/tair/grocery-pos/pkg/auth"
	"github.com/tair/grocery-pos/pkg/database"
	"github.com/tair/grocery-pos/pkg/middleware"
)

type nopNotifier struct{}

func (nopNotifier) NotifyLowStock(context.Context, inventorydomain.LowStockAlert) error { return nil }
func (nopNotifier) NotifyExpiry(context.Context, inventorydomain.ExpiryAlert) error     { return nil }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
}

type seeded struct {
	db        *gorm.DB
	product   *productdomain.Product
	inventory *inventorydomain.Inventory
}

type server struct {
	t      *testing.T
	router *mux.Router
	tokens *auth.TokenManager
}

func newServer(t *testing.T) (*server, *seeded) {
	t.Helper()
	db := testutil.NewDB(t)
	sales := repository.NewGormSaleRepository(db)
	products := productrepo.NewGormProductRepository(db)
	inventory := inventoryrepo.NewGormInventoryRepository(db)
	customers := customerrepo.NewGormCustomerRepository(db)
	tx := database.NewTransactor(db)

	alerts := inventorycommand.NewAlerts(products, nopNotifier{}, nil, 7)
	ledger := inventorycommand.NewAdjustQuantityHandler(inventory, alerts, tx, nil)
	effects := command.NewEffects(customercommand.NewLoyalty(customers), nil, nil, nil)

	handler := salehttp.NewSaleHandler(
		command.NewCreateSaleHandler(sales, products, inventory, ledger, customers, effects, tx),
		command.NewCancelSaleHandler(sales, inventory, ledger, effects, tx),
		query.NewGetSaleHandler(sales),
		query.NewListSalesHandler(sales),
	)
	s := &server{t: t, router: mux.NewRouter(), tokens: auth.NewTokenManager("test-secret", time.Hour)}
	handler.RegisterRoutes(s.router, middleware.NewAuthenticator(s.tokens))

	eggs := testutil.SeedProduct(t, db, "Eggs", "2000000000244", "3.00")
	return s, &seeded{
		db:        db,
		product:   eggs,
		inventory: testutil.SeedInventory(t, db, eggs.ID, 4, 1),
	}
}

func (s *server) do(method, path, body string, userID uint, role string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if role != "" {
		tok, err := s.tokens.GenerateToken(userID, role, role)
		if err != nil {
			s.t.Fatal(err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		s.t.Fatalf("decode %s %s: %v (body %s)", method, path, err, rec.Body.String())
	}
	return rec, env
}

type saleView struct {
	ID          uint            `json:"id"`
	UserID      uint            `json:"user_id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

func TestCreateSaleEndpoint(t *testing.T) {
	s, seeded := newServer(t)
	body := fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":2}],"payment_method":"cash"}`, seeded.product.ID)

	tests := []struct {
		name       string
		body       string
		role       string
		wantStatus int
		wantCode   string
	}{
		{"no token", body, "", http.StatusUnauthorized, "unauthorized"},
		{"empty items", `{"items":[],"payment_method":"cash"}`, auth.RoleCashier, http.StatusBadRequest, "invalid_input"},
		{"unknown product", `{"items":[{"product_id":999,"quantity":1}],"payment_method":"cash"}`, auth.RoleCashier, http.StatusNotFound, "not_found"},
		{"too many", fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":5}],"payment_method":"cash"}`, seeded.product.ID), auth.RoleCashier, http.StatusBadRequest, "insufficient_stock"},
		{"cashier checkout", body, auth.RoleCashier, http.StatusCreated, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(http.MethodPost, "/api/sales", tt.body, 3, tt.role)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if env.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", env.Code, tt.wantCode)
			}
		})
	}

	if got := testutil.Quantity(t, seeded.db, seeded.inventory.ID); got != 2 {
		t.Errorf("quantity = %d, want 2", got)
	}
}

func TestCancelSaleEndpoint(t *testing.T) {
	s, seeded := newServer(t)
	body := fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":3}],"payment_method":"card"}`, seeded.product.ID)
	rec, env := s.do(http.MethodPost, "/api/sales", body, 3, auth.RoleCashier)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var sale saleView
	if err := json.Unmarshal(env.Data, &sale); err != nil {
		t.Fatal(err)
	}
	if !sale.TotalAmount.Equal(decimal.RequireFromString("9.00")) {
		t.Errorf("total = %s, want 9.00", sale.TotalAmount)
	}
	path := fmt.Sprintf("/api/sales/%d?reason=customer+changed+mind", sale.ID)

	rec, env = s.do(http.MethodDelete, path, "", 3, auth.RoleCashier)
	if rec.Code != http.StatusForbidden || env.Code != "forbidden" {
		t.Fatalf("cashier cancel = %d %q, want 403 forbidden", rec.Code, env.Code)
	}

	rec, env = s.do(http.MethodDelete, path, "", 2, auth.RoleManager)
	if rec.Code != http.StatusOK {
		t.Fatalf("manager cancel = %d (body %s)", rec.Code, rec.Body.String())
	}
	var cancelled saleView
	if err := json.Unmarshal(env.Data, &cancelled); err != nil {
		t.Fatal(err)
	}
	if cancelled.Status != "cancelled" {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}
	if got := testutil.Quantity(t, seeded.db, seeded.inventory.ID); got != 4 {
		t.Errorf("quantity after cancel = %d, want 4", got)
	}

	rec, env = s.do(http.MethodDelete, path, "", 2, auth.RoleManager)
	if rec.Code != http.StatusBadRequest || env.Code != "already_cancelled" {
		t.Errorf("second cancel = %d %q, want 400 already_cancelled", rec.Code, env.Code)
	}

	rec, env = s.do(http.MethodDelete, "/api/sales/999", "", 2, auth.RoleAdmin)
	if rec.Code != http.StatusNotFound || env.Code != "not_found" {
		t.Errorf("unknown cancel = %d %q, want 404 not_found", rec.Code, env.Code)
	}
}

func TestListSalesScopesCashiers(t *testing.T) {
	s, seeded := newServer(t)
	body := fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":1}],"payment_method":"cash"}`, seeded.product.ID)
	for _, cashier := range []uint{3, 3, 4} {
		if rec, _ := s.do(http.MethodPost, "/api/sales", body, cashier, auth.RoleCashier); rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d (body %s)", rec.Code, rec.Body.String())
		}
	}

	tests := []struct {
		name   string
		path   string
		userID uint
		role   string
		want   int
	}{
		{"cashier sees own", "/api/sales", 3, auth.RoleCashier, 2},
		{"cashier cannot widen", "/api/sales?user_id=4", 3, auth.RoleCashier, 2},
		{"manager sees all", "/api/sales", 2, auth.RoleManager, 3},
		{"manager filters", "/api/sales?user_id=4", 2, auth.RoleManager, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(http.MethodGet, tt.path, "", tt.userID, tt.role)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
			}
			var page struct {
				Sales []saleView `json:"sales"`
				Total int64      `json:"total"`
			}
			if err := json.Unmarshal(env.Data, &page); err != nil {
				t.Fatal(err)
			}
			if page.Total != int64(tt.want) || len(page.Sales) != tt.want {
				t.Fatalf("got %d sales (total %d), want %d", len(page.Sales), page.Total, tt.want)
			}
			if tt.role == auth.RoleCashier {
				for _, sale := range page.Sales {
					if sale.UserID != tt.userID {
						t.Errorf("cashier %d sees sale of user %d", tt.userID, sale.UserID)
					}
				}
			}
		})
	}
}

func TestGetSaleScopesCashiers(t *testing.T) {
	s, seeded := newServer(t)
	body := fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":1}],"payment_method":"cash"}`, seeded.product.ID)
	rec, env := s.do(http.MethodPost, "/api/sales", body, 3, auth.RoleCashier)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var sale saleView
	if err := json.Unmarshal(env.Data, &sale); err != nil {
		t.Fatal(err)
	}
	path := fmt.Sprintf("/api/sales/%d", sale.ID)

	tests := []struct {
		name       string
		userID     uint
		role       string
		wantStatus int
		wantCode   string
	}{
		{"owner", 3, auth.RoleCashier, http.StatusOK, ""},
		{"other cashier", 9, auth.RoleCashier, http.StatusNotFound, "not_found"},
		{"manager", 2, auth.RoleManager, http.StatusOK, ""},
		{"admin", 1, auth.RoleAdmin, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(http.MethodGet, path, "", tt.userID, tt.role)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if env.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", env.Code, tt.wantCode)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var got saleView
			if err := json.Unmarshal(env.Data, &got); err != nil {
				t.Fatal(err)
			}
			if got.ID != sale.ID || got.UserID != 3 {
				t.Errorf("sale = %+v, want id %d by user 3", got, sale.ID)
			}
		})
	}
}
