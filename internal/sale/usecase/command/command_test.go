package command_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	customerdomain "github.com/tair/grocery-pos/internal/customer/domain"
	customerrepo "github.com/tair/grocery-pos/internal/customer/repository"
	customercommand "github.com/tair/grocery-pos/internal/customer/usecase/command"
	inventorydomain "github.com/tair/grocery-pos/internal/inventory/domain"
	inventoryrepo "github.com/tair/grocery-pos/internal/inventory/repository"
	inventorycommand "github.com/tair/grocery-pos/internal/inventory/usecase/command"
	productdomain "github.com/tair/grocery-pos/internal/product/domain"
	productrepo "github.com/tair/grocery-pos/internal/product/repository"
	"github.com/tair/grocery-pos/internal/sale/domain"
	"github.com/tair/grocery-pos/internal/sale/repository"
	"github.com/tair/grocery-pos/internal/sale/usecase/command"
	"github.com/tair/grocery-pos/internal/testutil"
	"github.com/tair/grocery-pos/kafka"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/database"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type nopNotifier struct{}

func (nopNotifier) NotifyLowStock(context.Context, inventorydomain.LowStockAlert) error { return nil }
func (nopNotifier) NotifyExpiry(context.Context, inventorydomain.ExpiryAlert) error     { return nil }

type captureEvents struct {
	completed []kafka.SaleCompletedEvent
	cancelled []kafka.SaleCancelledEvent
}

func (c *captureEvents) PublishSaleCompleted(_ context.Context, e kafka.SaleCompletedEvent) error {
	c.completed = append(c.completed, e)
	return nil
}

func (c *captureEvents) PublishSaleCancelled(_ context.Context, e kafka.SaleCancelledEvent) error {
	c.cancelled = append(c.cancelled, e)
	return nil
}

type countingCache struct{ invalidations int }

func (c *countingCache) Invalidate(context.Context) error {
	c.invalidations++
	return nil
}

// failingLedger passes the first calls to the real ledger and fails call
// number failOn.
type failingLedger struct {
	next   command.StockLedger
	failOn int
	calls  int
}

func (f *failingLedger) Handle(ctx context.Context, cmd inventorycommand.AdjustQuantityCommand) (*inventorycommand.AdjustmentResult, error) {
	f.calls++
	if f.calls == f.failOn {
		return nil, apperror.InsufficientStock("stock moved under the sale")
	}
	return f.next.Handle(ctx, cmd)
}

type fixture struct {
	db        *gorm.DB
	sales     *repository.GormSaleRepository
	products  *productrepo.GormProductRepository
	inventory *inventoryrepo.GormInventoryRepository
	customers *customerrepo.GormCustomerRepository
	ledger    *inventorycommand.AdjustQuantityHandler
	effects   *command.Effects
	events    *captureEvents
	cache     *countingCache
	tx        *database.Transactor

	milk, bread       *productdomain.Product
	milkInv, breadInv *inventorydomain.Inventory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{
		db:        db,
		sales:     repository.NewGormSaleRepository(db),
		products:  productrepo.NewGormProductRepository(db),
		inventory: inventoryrepo.NewGormInventoryRepository(db),
		customers: customerrepo.NewGormCustomerRepository(db),
		events:    &captureEvents{},
		cache:     &countingCache{},
		tx:        database.NewTransactor(db),
	}
	alerts := inventorycommand.NewAlerts(f.products, nopNotifier{}, nil, 7)
	f.ledger = inventorycommand.NewAdjustQuantityHandler(f.inventory, alerts, f.tx, nil)
	f.effects = command.NewEffects(customercommand.NewLoyalty(f.customers), f.events, f.cache, nil)

	f.milk = testutil.SeedProduct(t, db, "Milk", "2000000000176", "1.50")
	f.bread = testutil.SeedProduct(t, db, "Bread", "2000000000183", "2.25")
	f.milkInv = testutil.SeedInventory(t, db, f.milk.ID, 10, 2)
	f.breadInv = testutil.SeedInventory(t, db, f.bread.ID, 5, 1)
	return f
}

func (f *fixture) create(ledger command.StockLedger) *command.CreateSaleHandler {
	if ledger == nil {
		ledger = f.ledger
	}
	return command.NewCreateSaleHandler(f.sales, f.products, f.inventory, ledger, f.customers, f.effects, f.tx)
}

func (f *fixture) cancel() *command.CancelSaleHandler {
	return command.NewCancelSaleHandler(f.sales, f.inventory, f.ledger, f.effects, f.tx)
}

func (f *fixture) seedCustomer(t *testing.T) *customerdomain.Customer {
	t.Helper()
	c := &customerdomain.Customer{Name: "Ann"}
	if err := f.db.Create(c).Error; err != nil {
		t.Fatal(err)
	}
	return c
}

func (f *fixture) count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	if err := f.db.Table(table).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func TestCreateSaleTotalsAndStock(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t)
	breadPrice := dec("2.00")

	sale, err := f.create(nil).Handle(context.Background(), command.CreateSaleCommand{
		CustomerID: &customer.ID,
		Items: []command.SaleItemInput{
			{ProductID: f.milk.ID, Quantity: 3},
			{ProductID: f.bread.ID, Quantity: 2, UnitPrice: &breadPrice, Discount: dec("0.50")},
		},
		TaxAmount:      dec("0.80"),
		DiscountAmount: dec("1.00"),
		PaymentMethod:  "Cash",
		ActorID:        7,
	})
	if err != nil {
		t.Fatal(err)
	}

	if !sale.Subtotal.Equal(dec("8.00")) || !sale.TotalAmount.Equal(dec("7.80")) {
		t.Errorf("subtotal %s total %s, want 8.00 and 7.80", sale.Subtotal, sale.TotalAmount)
	}
	if sale.Status != domain.StatusCompleted || sale.PaymentStatus != domain.PaymentPaid || sale.PaymentMethod != domain.PaymentCash {
		t.Errorf("status %s payment %s/%s", sale.Status, sale.PaymentStatus, sale.PaymentMethod)
	}
	if sale.UserID != 7 {
		t.Errorf("user = %d, want 7", sale.UserID)
	}
	if len(sale.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(sale.Items))
	}

	sum := decimal.Zero
	for _, item := range sale.Items {
		want := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Sub(item.Discount)
		if !item.Subtotal.Equal(want) {
			t.Errorf("item %d subtotal %s, want %s", item.ProductID, item.Subtotal, want)
		}
		sum = sum.Add(item.Subtotal)
	}
	if !sum.Equal(sale.Subtotal) {
		t.Errorf("items sum to %s, sale subtotal %s", sum, sale.Subtotal)
	}
	if !sale.Items[0].UnitPrice.Equal(dec("1.50")) {
		t.Errorf("milk unit price %s, want catalog price 1.50", sale.Items[0].UnitPrice)
	}

	if got := testutil.Quantity(t, f.db, f.milkInv.ID); got != 7 {
		t.Errorf("milk stock = %d, want 7", got)
	}
	if got := testutil.Quantity(t, f.db, f.breadInv.ID); got != 3 {
		t.Errorf("bread stock = %d, want 3", got)
	}
	for _, inv := range []uint{f.milkInv.ID, f.breadInv.ID} {
		ledger := testutil.Ledger(t, f.db, inv)
		if len(ledger) != 1 || ledger[0].Type != inventorydomain.TypeSale || ledger[0].SaleID == nil || *ledger[0].SaleID != sale.ID {
			t.Errorf("ledger for inventory %d = %+v", inv, ledger)
		}
	}

	stored, err := f.customers.FindByID(context.Background(), customer.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.LoyaltyPoints != 7 {
		t.Errorf("loyalty points = %d, want 7", stored.LoyaltyPoints)
	}
	if len(f.events.completed) != 1 || f.events.completed[0].SaleID != sale.ID || len(f.events.completed[0].Items) != 2 {
		t.Errorf("completed events = %+v", f.events.completed)
	}
	if f.cache.invalidations != 1 {
		t.Errorf("report cache invalidated %d times, want 1", f.cache.invalidations)
	}
}

func TestCreateThenCancelRestoresStock(t *testing.T) {
	f := newFixture(t)
	customer := f.seedCustomer(t)
	ctx := context.Background()

	sale, err := f.create(nil).Handle(ctx, command.CreateSaleCommand{
		CustomerID:    &customer.ID,
		Items:         []command.SaleItemInput{{ProductID: f.milk.ID, Quantity: 4}, {ProductID: f.bread.ID, Quantity: 5}},
		PaymentMethod: domain.PaymentCard,
		ActorID:       7,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := testutil.Quantity(t, f.db, f.breadInv.ID); got != 0 {
		t.Fatalf("bread stock = %d, want 0", got)
	}

	cancelled, err := f.cancel().Handle(ctx, command.CancelSaleCommand{SaleID: sale.ID, ActorID: 2, Reason: " wrong customer "})
	if err != nil {
		t.Fatal(err)
	}
	if cancelled.Status != domain.StatusCancelled || cancelled.PaymentStatus != domain.PaymentRefunded {
		t.Errorf("status %s payment %s", cancelled.Status, cancelled.PaymentStatus)
	}
	if cancelled.CancelledBy == nil || *cancelled.CancelledBy != 2 || cancelled.CancelledAt == nil || cancelled.CancelReason != "wrong customer" {
		t.Errorf("cancellation audit = %v %v %q", cancelled.CancelledBy, cancelled.CancelledAt, cancelled.CancelReason)
	}

	if got := testutil.Quantity(t, f.db, f.milkInv.ID); got != 10 {
		t.Errorf("milk stock = %d, want 10", got)
	}
	if got := testutil.Quantity(t, f.db, f.breadInv.ID); got != 5 {
		t.Errorf("bread stock = %d, want 5", got)
	}
	ledger := testutil.Ledger(t, f.db, f.milkInv.ID)
	if len(ledger) != 2 || ledger[1].Type != inventorydomain.TypeReturn || ledger[1].Quantity != 4 {
		t.Errorf("milk ledger = %+v", ledger)
	}

	stored, _ := f.customers.FindByID(ctx, customer.ID)
	if stored.LoyaltyPoints != 0 {
		t.Errorf("loyalty points = %d, want 0 after cancel", stored.LoyaltyPoints)
	}
	if len(f.events.cancelled) != 1 || f.events.cancelled[0].CancelledBy != 2 {
		t.Errorf("cancelled events = %+v", f.events.cancelled)
	}

	_, err = f.cancel().Handle(ctx, command.CancelSaleCommand{SaleID: sale.ID, ActorID: 2})
	if !errors.Is(err, apperror.ErrAlreadyCancelled) {
		t.Fatalf("second cancel: %v, want already cancelled", err)
	}
	if got := testutil.Quantity(t, f.db, f.milkInv.ID); got != 10 {
		t.Errorf("second cancel changed milk stock to %d", got)
	}
	if len(testutil.Ledger(t, f.db, f.milkInv.ID)) != 2 {
		t.Error("second cancel wrote ledger entries")
	}
}

func TestCancelUnknownSale(t *testing.T) {
	f := newFixture(t)
	_, err := f.cancel().Handle(context.Background(), command.CancelSaleCommand{SaleID: 404, ActorID: 1})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestCreateSaleInsufficientStockWritesNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.create(nil).Handle(context.Background(), command.CreateSaleCommand{
		Items:         []command.SaleItemInput{{ProductID: f.milk.ID, Quantity: 2}, {ProductID: f.bread.ID, Quantity: 6}},
		PaymentMethod: domain.PaymentCash,
		ActorID:       1,
	})
	if !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("err = %v, want insufficient stock", err)
	}
	if n := f.count(t, "sales"); n != 0 {
		t.Errorf("%d sales written", n)
	}
	if got := testutil.Quantity(t, f.db, f.milkInv.ID); got != 10 {
		t.Errorf("milk stock = %d, want 10", got)
	}
}

func TestCreateSaleRollsBackWhenLaterLineFails(t *testing.T) {
	f := newFixture(t)
	ledger := &failingLedger{next: f.ledger, failOn: 2}

	_, err := f.create(ledger).Handle(context.Background(), command.CreateSaleCommand{
		Items:         []command.SaleItemInput{{ProductID: f.milk.ID, Quantity: 2}, {ProductID: f.bread.ID, Quantity: 1}},
		PaymentMethod: domain.PaymentCash,
		ActorID:       1,
	})
	if !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("err = %v, want insufficient stock", err)
	}
	if ledger.calls != 2 {
		t.Fatalf("ledger called %d times, want 2", ledger.calls)
	}

	for _, table := range []string{"sales", "sale_items", "inventory_transactions"} {
		if n := f.count(t, table); n != 0 {
			t.Errorf("%s has %d rows after rollback", table, n)
		}
	}
	if got := testutil.Quantity(t, f.db, f.milkInv.ID); got != 10 {
		t.Errorf("milk stock = %d, want 10 after rollback", got)
	}
	if len(f.events.completed) != 0 || f.cache.invalidations != 0 {
		t.Error("after-commit effects ran for a rolled back sale")
	}
}

func TestCreateSaleValidation(t *testing.T) {
	f := newFixture(t)
	inactive := testutil.SeedProduct(t, f.db, "Old stock", "2000000000190", "1.00")
	if err := f.db.Model(inactive).Update("is_active", false).Error; err != nil {
		t.Fatal(err)
	}
	testutil.SeedInventory(t, f.db, inactive.ID, 5, 0)
	unstocked := testutil.SeedProduct(t, f.db, "Unstocked", "2000000000206", "1.00")
	missingCustomer := uint(99)
	negative := dec("-1")

	item := func(id uint, qty int) []command.SaleItemInput {
		return []command.SaleItemInput{{ProductID: id, Quantity: qty}}
	}

	tests := []struct {
		name string
		cmd  command.CreateSaleCommand
		want apperror.Kind
	}{
		{"no items", command.CreateSaleCommand{PaymentMethod: "cash", ActorID: 1}, apperror.KindInvalidInput},
		{"no actor", command.CreateSaleCommand{Items: item(f.milk.ID, 1), PaymentMethod: "cash"}, apperror.KindInvalidInput},
		{"zero quantity", command.CreateSaleCommand{Items: item(f.milk.ID, 0), PaymentMethod: "cash", ActorID: 1}, apperror.KindInvalidInput},
		{"bad payment method", command.CreateSaleCommand{Items: item(f.milk.ID, 1), PaymentMethod: "iou", ActorID: 1}, apperror.KindInvalidInput},
		{"refunded on create", command.CreateSaleCommand{Items: item(f.milk.ID, 1), PaymentMethod: "cash", PaymentStatus: "refunded", ActorID: 1}, apperror.KindInvalidInput},
		{"negative tax", command.CreateSaleCommand{Items: item(f.milk.ID, 1), PaymentMethod: "cash", TaxAmount: negative, ActorID: 1}, apperror.KindInvalidInput},
		{"negative unit price", command.CreateSaleCommand{Items: []command.SaleItemInput{{ProductID: f.milk.ID, Quantity: 1, UnitPrice: &negative}}, PaymentMethod: "cash", ActorID: 1}, apperror.KindInvalidInput},
		{"line discount above amount", command.CreateSaleCommand{Items: []command.SaleItemInput{{ProductID: f.milk.ID, Quantity: 1, Discount: dec("2.00")}}, PaymentMethod: "cash", ActorID: 1}, apperror.KindInvalidInput},
		{"discount above total", command.CreateSaleCommand{Items: item(f.milk.ID, 1), PaymentMethod: "cash", DiscountAmount: dec("5.00"), ActorID: 1}, apperror.KindInvalidInput},
		{"duplicate product", command.CreateSaleCommand{Items: []command.SaleItemInput{{ProductID: f.milk.ID, Quantity: 1}, {ProductID: f.milk.ID, Quantity: 2}}, PaymentMethod: "cash", ActorID: 1}, apperror.KindInvalidInput},
		{"inactive product", command.CreateSaleCommand{Items: item(inactive.ID, 1), PaymentMethod: "cash", ActorID: 1}, apperror.KindInvalidInput},
		{"unknown product", command.CreateSaleCommand{Items: item(999, 1), PaymentMethod: "cash", ActorID: 1}, apperror.KindNotFound},
		{"product without inventory", command.CreateSaleCommand{Items: item(unstocked.ID, 1), PaymentMethod: "cash", ActorID: 1}, apperror.KindNotFound},
		{"unknown customer", command.CreateSaleCommand{CustomerID: &missingCustomer, Items: item(f.milk.ID, 1), PaymentMethod: "cash", ActorID: 1}, apperror.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.create(nil).Handle(context.Background(), tt.cmd)
			if got := apperror.KindOf(err); got != tt.want {
				t.Fatalf("kind = %s, want %s (err %v)", got, tt.want, err)
			}
		})
	}

	if n := f.count(t, "sales"); n != 0 {
		t.Errorf("%d sales written by rejected requests", n)
	}
}

func TestNewReceiptNumber(t *testing.T) {
	at := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^RCP-20261019-[0-9A-F]{8}$`)

	a, b := command.NewReceiptNumber(at), command.NewReceiptNumber(at)
	if !pattern.MatchString(a) {
		t.Errorf("receipt %q does not match %s", a, pattern)
	}
	if a == b {
		t.Errorf("two receipts collided: %s", a)
	}
}
