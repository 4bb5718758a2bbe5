package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tair/grocery-pos/internal/customer/repository"
	"github.com/tair/grocery-pos/internal/customer/usecase/command"
	saledomain "github.com/tair/grocery-pos/internal/sale/domain"
	"github.com/tair/grocery-pos/internal/testutil"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/database"
)

func str(s string) *string { return &s }

func TestPointsFor(t *testing.T) {
	tests := []struct {
		total string
		want  int
	}{
		{"0", 0},
		{"0.99", 0},
		{"1.00", 1},
		{"25.75", 25},
		{"-3.00", 0},
	}
	for _, tt := range tests {
		if got := command.PointsFor(decimal.RequireFromString(tt.total)); got != tt.want {
			t.Errorf("PointsFor(%s) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestCustomerLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewGormCustomerRepository(db)
	create := command.NewCreateCustomerHandler(repo)
	update := command.NewUpdateCustomerHandler(repo)
	remove := command.NewDeleteCustomerHandler(repo, database.NewTransactor(db))
	ctx := context.Background()

	c, err := create.Handle(ctx, command.CustomerInput{Name: str(" Ann Lee "), Email: str("ANN@example.com"), Phone: str("555-0101")})
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "Ann Lee" || c.Email == nil || *c.Email != "ann@example.com" {
		t.Errorf("customer = %+v", c)
	}

	if _, err := create.Handle(ctx, command.CustomerInput{Name: str("Other"), Email: str("ann@example.com")}); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("duplicate email: %v, want conflict", err)
	}
	if _, err := create.Handle(ctx, command.CustomerInput{Name: str("  ")}); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("blank name: %v, want invalid input", err)
	}
	if _, err := create.Handle(ctx, command.CustomerInput{Name: str("Bob"), Email: str("not an email")}); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("bad email: %v, want invalid input", err)
	}

	updated, err := update.Handle(ctx, c.ID, command.CustomerInput{Address: str("1 Main St"), Email: str("")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Address != "1 Main St" || updated.Email != nil || updated.Name != "Ann Lee" {
		t.Errorf("updated = %+v", updated)
	}

	if err := remove.Handle(ctx, c.ID); err != nil {
		t.Fatal(err)
	}
	if err := remove.Handle(ctx, c.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second delete: %v, want not found", err)
	}
}

func TestDeleteCustomerWithSalesConflicts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewGormCustomerRepository(db)
	create := command.NewCreateCustomerHandler(repo)
	remove := command.NewDeleteCustomerHandler(repo, database.NewTransactor(db))
	ctx := context.Background()

	c, err := create.Handle(ctx, command.CustomerInput{Name: str("Regular")})
	if err != nil {
		t.Fatal(err)
	}
	sale := &saledomain.Sale{
		ReceiptNumber:  "RCP-TEST-2",
		CustomerID:     &c.ID,
		UserID:         1,
		Subtotal:       decimal.NewFromInt(5),
		TaxAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    decimal.NewFromInt(5),
		PaymentMethod:  saledomain.PaymentCash,
		PaymentStatus:  saledomain.PaymentPaid,
		Status:         saledomain.StatusCompleted,
	}
	if err := db.Create(sale).Error; err != nil {
		t.Fatal(err)
	}

	if err := remove.Handle(ctx, c.ID); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestLoyaltyNeverGoesNegative(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewGormCustomerRepository(db)
	loyalty := command.NewLoyalty(repo)
	ctx := context.Background()

	c, err := command.NewCreateCustomerHandler(repo).Handle(ctx, command.CustomerInput{Name: str("Points")})
	if err != nil {
		t.Fatal(err)
	}

	loyalty.Award(ctx, c.ID, decimal.RequireFromString("12.40"))
	loyalty.Award(ctx, c.ID, decimal.RequireFromString("3.99"))
	stored, _ := repo.FindByID(ctx, c.ID)
	if stored.LoyaltyPoints != 15 {
		t.Fatalf("points = %d, want 15", stored.LoyaltyPoints)
	}

	loyalty.Revoke(ctx, c.ID, decimal.RequireFromString("40.00"))
	stored, _ = repo.FindByID(ctx, c.ID)
	if stored.LoyaltyPoints != 0 {
		t.Errorf("points = %d, want 0", stored.LoyaltyPoints)
	}
}
