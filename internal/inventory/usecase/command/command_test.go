package command_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/tair/grocery-pos/internal/inventory/domain"
	"github.com/tair/grocery-pos/internal/inventory/repository"
	"github.com/tair/grocery-pos/internal/inventory/usecase/command"
	notificationdomain "github.com/tair/grocery-pos/internal/notification/domain"
	notificationrepo "github.com/tair/grocery-pos/internal/notification/repository"
	notificationcommand "github.com/tair/grocery-pos/internal/notification/usecase/command"
	productrepo "github.com/tair/grocery-pos/internal/product/repository"
	"github.com/tair/grocery-pos/internal/testutil"
	userdomain "github.com/tair/grocery-pos/internal/user/domain"
	userrepo "github.com/tair/grocery-pos/internal/user/repository"
	userquery "github.com/tair/grocery-pos/internal/user/usecase/query"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/auth"
	"github.com/tair/grocery-pos/pkg/database"
)

type recordingNotifier struct {
	mu       sync.Mutex
	lowStock []domain.LowStockAlert
	expiry   []domain.ExpiryAlert
	err      error
}

func (n *recordingNotifier) NotifyLowStock(_ context.Context, alert domain.LowStockAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lowStock = append(n.lowStock, alert)
	return n.err
}

func (n *recordingNotifier) NotifyExpiry(_ context.Context, alert domain.ExpiryAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.expiry = append(n.expiry, alert)
	return n.err
}

type fixture struct {
	db     *gorm.DB
	repo   *repository.GormInventoryRepository
	alerts *command.Alerts
	ledger *command.AdjustQuantityHandler
	tx     *database.Transactor
}

func newFixture(t *testing.T, notifier domain.Notifier) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	repo := repository.NewGormInventoryRepository(db)
	tx := database.NewTransactor(db)
	alerts := command.NewAlerts(productrepo.NewGormProductRepository(db), notifier, nil, 7)
	return &fixture{
		db:     db,
		repo:   repo,
		alerts: alerts,
		ledger: command.NewAdjustQuantityHandler(repo, alerts, tx, nil),
		tx:     tx,
	}
}

func TestAdjustWritesMatchingLedgerEntry(t *testing.T) {
	f := newFixture(t, &recordingNotifier{})
	p := testutil.SeedProduct(t, f.db, "Rice 5kg", "2000000000046", "9.99")
	inv := testutil.SeedInventory(t, f.db, p.ID, 10, 2)

	steps := []struct {
		delta   int
		txType  string
		wantQty int
	}{
		{-3, domain.TypeAdjustment, 7},
		{5, domain.TypeRestock, 12},
		{-12, domain.TypeAdjustment, 0},
		{4, domain.TypeReturn, 4},
	}
	for _, s := range steps {
		res, err := f.ledger.Handle(context.Background(), command.AdjustQuantityCommand{
			InventoryID: inv.ID,
			Delta:       s.delta,
			Type:        s.txType,
			ActorID:     1,
		})
		if err != nil {
			t.Fatalf("delta %d: %v", s.delta, err)
		}
		if res.NewQuantity != s.wantQty || res.NewQuantity != res.PreviousQuantity+s.delta {
			t.Fatalf("delta %d: previous %d new %d, want new %d", s.delta, res.PreviousQuantity, res.NewQuantity, s.wantQty)
		}
		if got := testutil.Quantity(t, f.db, inv.ID); got != s.wantQty {
			t.Fatalf("stored quantity = %d, want %d", got, s.wantQty)
		}
	}

	ledger := testutil.Ledger(t, f.db, inv.ID)
	if len(ledger) != len(steps) {
		t.Fatalf("ledger has %d rows, want %d", len(ledger), len(steps))
	}
	for i, entry := range ledger {
		if entry.NewQuantity != entry.PreviousQuantity+entry.Quantity {
			t.Errorf("row %d: %d + %d != %d", i, entry.PreviousQuantity, entry.Quantity, entry.NewQuantity)
		}
		if entry.Quantity != steps[i].delta || entry.Type != steps[i].txType {
			t.Errorf("row %d = %+v, want delta %d type %s", i, entry, steps[i].delta, steps[i].txType)
		}
		if entry.Reason == "" {
			t.Errorf("row %d has no reason", i)
		}
	}
}

func TestAdjustRejectsOverdraw(t *testing.T) {
	f := newFixture(t, &recordingNotifier{})
	p := testutil.SeedProduct(t, f.db, "Sugar", "2000000000053", "1.10")
	inv := testutil.SeedInventory(t, f.db, p.ID, 3, 0)

	_, err := f.ledger.Handle(context.Background(), command.AdjustQuantityCommand{
		InventoryID: inv.ID,
		Delta:       -4,
		ActorID:     1,
	})
	if !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("err = %v, want insufficient stock", err)
	}
	if got := testutil.Quantity(t, f.db, inv.ID); got != 3 {
		t.Errorf("quantity = %d, want 3", got)
	}
	if n := len(testutil.Ledger(t, f.db, inv.ID)); n != 0 {
		t.Errorf("ledger has %d rows after a rejected adjustment", n)
	}
}

func TestAdjustValidation(t *testing.T) {
	f := newFixture(t, &recordingNotifier{})
	p := testutil.SeedProduct(t, f.db, "Salt", "2000000000060", "0.50")
	inv := testutil.SeedInventory(t, f.db, p.ID, 10, 0)

	tests := []struct {
		name string
		cmd  command.AdjustQuantityCommand
		want apperror.Kind
	}{
		{"zero delta", command.AdjustQuantityCommand{InventoryID: inv.ID}, apperror.KindInvalidInput},
		{"missing inventory id", command.AdjustQuantityCommand{Delta: 1}, apperror.KindInvalidInput},
		{"unknown type", command.AdjustQuantityCommand{InventoryID: inv.ID, Delta: 1, Type: "gift"}, apperror.KindInvalidInput},
		{"sale increasing stock", command.AdjustQuantityCommand{InventoryID: inv.ID, Delta: 1, Type: domain.TypeSale}, apperror.KindInvalidInput},
		{"restock decreasing stock", command.AdjustQuantityCommand{InventoryID: inv.ID, Delta: -1, Type: domain.TypeRestock}, apperror.KindInvalidInput},
		{"unknown inventory", command.AdjustQuantityCommand{InventoryID: 999, Delta: 1}, apperror.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ledger.Handle(context.Background(), tt.cmd)
			if got := apperror.KindOf(err); got != tt.want {
				t.Fatalf("kind = %s, want %s (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestConcurrentDecrementsNeverOverdraw(t *testing.T) {
	f := newFixture(t, &recordingNotifier{})
	p := testutil.SeedProduct(t, f.db, "Butter", "2000000000077", "2.40")
	inv := testutil.SeedInventory(t, f.db, p.ID, 10, 0)

	deltas := []int{-7, -5}
	errs := make([]error, len(deltas))
	var wg sync.WaitGroup
	for i, d := range deltas {
		wg.Add(1)
		go func(i, d int) {
			defer wg.Done()
			_, errs[i] = f.ledger.Handle(context.Background(), command.AdjustQuantityCommand{
				InventoryID: inv.ID,
				Delta:       d,
				ActorID:     1,
			})
		}(i, d)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case !errors.Is(err, apperror.ErrInsufficientStock):
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("%d decrements succeeded, want exactly 1", succeeded)
	}

	qty := testutil.Quantity(t, f.db, inv.ID)
	if qty != 3 && qty != 5 {
		t.Fatalf("quantity = %d, want 3 or 5", qty)
	}
	ledger := testutil.Ledger(t, f.db, inv.ID)
	if len(ledger) != 1 || ledger[0].NewQuantity != qty {
		t.Fatalf("ledger = %+v, want one entry ending at %d", ledger, qty)
	}
}

func TestLowStockAlertOnlyOnDecrement(t *testing.T) {
	notifier := &recordingNotifier{}
	f := newFixture(t, notifier)
	p := testutil.SeedProduct(t, f.db, "Yogurt", "2000000000084", "0.90")
	inv := testutil.SeedInventory(t, f.db, p.ID, 10, 5)
	ctx := context.Background()

	adjust := func(delta int, txType string) {
		t.Helper()
		if _, err := f.ledger.Handle(ctx, command.AdjustQuantityCommand{
			InventoryID: inv.ID, Delta: delta, Type: txType, ActorID: 1,
		}); err != nil {
			t.Fatal(err)
		}
	}

	adjust(-4, domain.TypeAdjustment)
	if len(notifier.lowStock) != 0 {
		t.Fatal("alert raised while stock stayed above the minimum")
	}

	adjust(-2, domain.TypeAdjustment)
	if len(notifier.lowStock) != 1 {
		t.Fatalf("got %d alerts, want 1", len(notifier.lowStock))
	}
	alert := notifier.lowStock[0]
	if alert.ProductID != p.ID || alert.ProductName != "Yogurt" || alert.Quantity != 4 || alert.MinStockLevel != 5 {
		t.Errorf("alert = %+v", alert)
	}

	adjust(1, domain.TypeRestock)
	if len(notifier.lowStock) != 1 {
		t.Error("restock below the minimum raised an alert")
	}
}

func TestNotifierFailureDoesNotUndoAdjustment(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("sink down")}
	f := newFixture(t, notifier)
	p := testutil.SeedProduct(t, f.db, "Cheese", "2000000000091", "4.50")
	inv := testutil.SeedInventory(t, f.db, p.ID, 6, 5)

	res, err := f.ledger.Handle(context.Background(), command.AdjustQuantityCommand{
		InventoryID: inv.ID, Delta: -2, ActorID: 1,
	})
	if err != nil {
		t.Fatalf("adjustment failed because of the notifier: %v", err)
	}
	if res.NewQuantity != 4 || testutil.Quantity(t, f.db, inv.ID) != 4 {
		t.Errorf("quantity not committed: %+v", res)
	}
	if len(notifier.lowStock) != 1 {
		t.Errorf("notifier called %d times, want 1", len(notifier.lowStock))
	}
}

func TestLowStockFansOutToAdminsAndManagers(t *testing.T) {
	db := testutil.NewDB(t)
	users := userrepo.NewGormUserRepository(db)
	notifications := notificationrepo.NewGormNotificationRepository(db)
	fanOut := notificationcommand.NewFanOutService(notifications, userquery.NewStockRecipients(users), nil)

	repo := repository.NewGormInventoryRepository(db)
	tx := database.NewTransactor(db)
	alerts := command.NewAlerts(productrepo.NewGormProductRepository(db), fanOut, nil, 7)
	ledger := command.NewAdjustQuantityHandler(repo, alerts, tx, nil)

	admin := testutil.SeedUser(t, db, "admin", auth.RoleAdmin)
	manager := testutil.SeedUser(t, db, "manager", auth.RoleManager)
	cashier := testutil.SeedUser(t, db, "cashier", auth.RoleCashier)
	retired := testutil.SeedUser(t, db, "retired", auth.RoleManager)
	if err := db.Model(retired).Update("status", userdomain.StatusDeactivated).Error; err != nil {
		t.Fatal(err)
	}

	p := testutil.SeedProduct(t, db, "Orange Juice", "2000000000107", "3.00")
	inv := testutil.SeedInventory(t, db, p.ID, 10, 5)

	res, err := ledger.Handle(context.Background(), command.AdjustQuantityCommand{
		InventoryID: inv.ID, Delta: -6, ActorID: cashier.ID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.NewQuantity != 4 {
		t.Fatalf("new quantity = %d, want 4", res.NewQuantity)
	}

	var rows []notificationdomain.Notification
	if err := db.Order("user_id").Find(&rows).Error; err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d notifications, want 2", len(rows))
	}
	wantUsers := []uint{admin.ID, manager.ID}
	for i, n := range rows {
		if n.UserID != wantUsers[i] {
			t.Errorf("notification %d for user %d, want %d", i, n.UserID, wantUsers[i])
		}
		if n.Type != notificationdomain.TypeLowStock || n.IsRead {
			t.Errorf("notification %d = %+v", i, n)
		}
		if n.ProductID == nil || *n.ProductID != p.ID {
			t.Errorf("notification %d does not reference the product", i)
		}
		if !strings.Contains(n.Message, "Orange Juice") || !strings.Contains(n.Message, "4") {
			t.Errorf("message = %q", n.Message)
		}
	}
}

func TestCreateInventoryBooksInitialStock(t *testing.T) {
	f := newFixture(t, &recordingNotifier{})
	p := testutil.SeedProduct(t, f.db, "Flour", "2000000000114", "1.80")
	h := command.NewCreateInventoryHandler(f.repo, productrepo.NewGormProductRepository(f.db), f.ledger, f.alerts, f.tx)
	ctx := context.Background()

	inv, err := h.Handle(ctx, command.CreateInventoryCommand{ProductID: p.ID, Quantity: 25, MinStockLevel: 5, ActorID: 1})
	if err != nil {
		t.Fatal(err)
	}
	if inv.Quantity != 25 || inv.Location != "store" {
		t.Errorf("inventory = %+v", inv)
	}
	ledger := testutil.Ledger(t, f.db, inv.ID)
	if len(ledger) != 1 || ledger[0].Type != domain.TypeRestock || ledger[0].Quantity != 25 {
		t.Errorf("ledger = %+v, want one restock of 25", ledger)
	}

	_, err = h.Handle(ctx, command.CreateInventoryCommand{ProductID: p.ID, Quantity: 1})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("second inventory row: %v, want conflict", err)
	}
	_, err = h.Handle(ctx, command.CreateInventoryCommand{ProductID: 999})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("unknown product: %v, want not found", err)
	}
}

func TestUpdateInventoryRefusesQuantity(t *testing.T) {
	notifier := &recordingNotifier{}
	f := newFixture(t, notifier)
	p := testutil.SeedProduct(t, f.db, "Tea", "2000000000121", "2.20")
	inv := testutil.SeedInventory(t, f.db, p.ID, 8, 2)
	h := command.NewUpdateInventoryHandler(f.repo, f.alerts, f.tx)
	ctx := context.Background()

	qty := 50
	_, err := h.Handle(ctx, command.UpdateInventoryCommand{ID: inv.ID, Quantity: &qty})
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("err = %v, want invalid input", err)
	}
	if got := testutil.Quantity(t, f.db, inv.ID); got != 8 {
		t.Fatalf("quantity changed to %d", got)
	}

	minLevel := 10
	location := "aisle 4"
	updated, err := h.Handle(ctx, command.UpdateInventoryCommand{ID: inv.ID, MinStockLevel: &minLevel, Location: &location})
	if err != nil {
		t.Fatal(err)
	}
	if updated.MinStockLevel != 10 || updated.Location != "aisle 4" || updated.Quantity != 8 {
		t.Errorf("updated = %+v", updated)
	}
	if len(notifier.lowStock) != 1 {
		t.Errorf("raising the minimum above stock raised %d alerts, want 1", len(notifier.lowStock))
	}
}

func TestUpdateInventoryDefaultsBlankLocation(t *testing.T) {
	f := newFixture(t, &recordingNotifier{})
	p := testutil.SeedProduct(t, f.db, "Rice", "2000000000176", "4.10")
	inv := testutil.SeedInventory(t, f.db, p.ID, 6, 1)
	h := command.NewUpdateInventoryHandler(f.repo, f.alerts, f.tx)

	blank := "   "
	updated, err := h.Handle(context.Background(), command.UpdateInventoryCommand{ID: inv.ID, Location: &blank})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Location != domain.DefaultLocation {
		t.Errorf("location = %q, want %q", updated.Location, domain.DefaultLocation)
	}
	if updated.Product == nil || updated.Product.Name != "Rice" {
		t.Errorf("product = %+v, want Rice loaded", updated.Product)
	}

	var stored domain.Inventory
	if err := f.db.First(&stored, inv.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.Location != domain.DefaultLocation {
		t.Errorf("stored location = %q, want %q", stored.Location, domain.DefaultLocation)
	}
}

func TestCheckExpiry(t *testing.T) {
	notifier := &recordingNotifier{}
	f := newFixture(t, notifier)
	h := command.NewCheckExpiryHandler(f.repo, f.alerts)
	now := time.Now()

	seed := func(name, barcode string, qty int, expiry time.Time) {
		p := testutil.SeedProduct(t, f.db, name, barcode, "1.00")
		inv := testutil.SeedInventory(t, f.db, p.ID, qty, 0)
		if err := f.db.Model(inv).Update("expiry_date", expiry).Error; err != nil {
			t.Fatal(err)
		}
	}
	seed("Expired", "2000000000138", 3, now.Add(-24*time.Hour))
	seed("Sold out", "2000000000145", 0, now.Add(-24*time.Hour))
	seed("Soon", "2000000000152", 4, now.Add(48*time.Hour))
	seed("Later", "2000000000169", 4, now.Add(30*24*time.Hour))

	res, err := h.Handle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Scanned != 2 || res.Expired != 1 || res.NearExpiry != 1 {
		t.Errorf("result = %+v, want 2 scanned, 1 expired, 1 near expiry", res)
	}
	if len(notifier.expiry) != 2 {
		t.Fatalf("got %d expiry alerts, want 2", len(notifier.expiry))
	}
	for _, a := range notifier.expiry {
		switch a.ProductName {
		case "Expired":
			if a.Status != domain.ExpiryExpired {
				t.Errorf("Expired classified as %s", a.Status)
			}
		case "Soon":
			if a.Status != domain.ExpiryNearExpiry {
				t.Errorf("Soon classified as %s", a.Status)
			}
		default:
			t.Errorf("unexpected alert for %s", a.ProductName)
		}
	}
}
