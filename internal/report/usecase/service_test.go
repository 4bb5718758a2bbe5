package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/tair/grocery-pos/internal/report/domain"
	"github.com/tair/grocery-pos/internal/report/repository"
	"github.com/tair/grocery-pos/internal/report/usecase"
	saledomain "github.com/tair/grocery-pos/internal/sale/domain"
	"github.com/tair/grocery-pos/internal/testutil"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/cache"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type line struct {
	productID uint
	quantity  int
	subtotal  string
}

func seedSale(t *testing.T, db *gorm.DB, receipt, status string, at time.Time, total string, lines ...line) {
	t.Helper()
	items := make([]saledomain.SaleItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, saledomain.SaleItem{
			ProductID: l.productID,
			Quantity:  l.quantity,
			UnitPrice: dec(l.subtotal).Div(decimal.NewFromInt(int64(l.quantity))).Round(2),
			Discount:  decimal.Zero,
			Subtotal:  dec(l.subtotal),
		})
	}
	sale := &saledomain.Sale{
		ReceiptNumber:  receipt,
		UserID:         1,
		Subtotal:       dec(total),
		TaxAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    dec(total),
		PaymentMethod:  saledomain.PaymentCash,
		PaymentStatus:  saledomain.PaymentPaid,
		Status:         status,
		Items:          items,
		CreatedAt:      at,
	}
	if err := db.Create(sale).Error; err != nil {
		t.Fatal(err)
	}
}

func newService(t *testing.T) (*usecase.ReportService, domain.Period) {
	t.Helper()
	db := testutil.NewDB(t)

	milk := testutil.SeedProduct(t, db, "Milk", "2000000000213", "1.50")
	bread := testutil.SeedProduct(t, db, "Bread", "2000000000220", "3.00")
	db.Model(milk).Update("cost", dec("1.00"))
	db.Model(bread).Update("cost", dec("2.00"))
	testutil.SeedInventory(t, db, milk.ID, 10, 2)
	testutil.SeedInventory(t, db, bread.ID, 2, 5)

	day := func(d, h int) time.Time { return time.Date(2026, 3, d, h, 0, 0, 0, time.UTC) }
	seedSale(t, db, "RCP-1", saledomain.StatusCompleted, day(1, 10), "10.00", line{milk.ID, 2, "3.00"}, line{bread.ID, 1, "7.00"})
	seedSale(t, db, "RCP-2", saledomain.StatusCompleted, day(1, 15), "5.50", line{bread.ID, 2, "5.50"})
	seedSale(t, db, "RCP-3", saledomain.StatusCompleted, day(2, 9), "4.50", line{milk.ID, 3, "4.50"})
	seedSale(t, db, "RCP-4", saledomain.StatusCancelled, day(2, 11), "100.00", line{milk.ID, 50, "100.00"})
	seedSale(t, db, "RCP-5", saledomain.StatusCompleted, day(5, 9), "99.00", line{milk.ID, 1, "99.00"})

	svc := usecase.NewReportService(repository.NewGormReportRepository(db), cache.New(nil, "reports", time.Minute))
	return svc, domain.Period{From: day(1, 0), To: day(3, 0)}
}

func TestSalesSummary(t *testing.T) {
	svc, period := newService(t)

	s, err := svc.SalesSummary(context.Background(), period)
	if err != nil {
		t.Fatal(err)
	}
	if s.CompletedSales != 3 || s.CancelledSales != 1 {
		t.Errorf("completed %d cancelled %d, want 3 and 1", s.CompletedSales, s.CancelledSales)
	}
	if !s.Revenue.Equal(dec("20.00")) || !s.AverageSale.Equal(dec("6.67")) {
		t.Errorf("revenue %s average %s, want 20.00 and 6.67", s.Revenue, s.AverageSale)
	}

	_, err = svc.SalesSummary(context.Background(), domain.Period{From: period.To, To: period.From})
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("reversed period: %v, want invalid input", err)
	}
}

func TestTopProducts(t *testing.T) {
	svc, period := newService(t)

	top, err := svc.TopProducts(context.Background(), period, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 {
		t.Fatalf("got %d products, want 2", len(top))
	}
	if top[0].ProductName != "Milk" || top[0].Quantity != 5 || !top[0].Revenue.Equal(dec("7.50")) {
		t.Errorf("first = %+v, want Milk x5 for 7.50", top[0])
	}
	if top[1].ProductName != "Bread" || top[1].Quantity != 3 || !top[1].Revenue.Equal(dec("12.50")) {
		t.Errorf("second = %+v, want Bread x3 for 12.50", top[1])
	}

	one, err := svc.TopProducts(context.Background(), period, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(one) != 1 {
		t.Errorf("limit 1 returned %d rows", len(one))
	}
}

func TestInventoryValuation(t *testing.T) {
	svc, _ := newService(t)

	v, err := svc.InventoryValuation(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if v.Products != 2 || v.Units != 12 || v.LowStockCount != 1 {
		t.Errorf("valuation = %+v", v)
	}
	if !v.CostValue.Equal(dec("14.00")) || !v.RetailValue.Equal(dec("21.00")) {
		t.Errorf("cost %s retail %s, want 14.00 and 21.00", v.CostValue, v.RetailValue)
	}
}

func TestDailySales(t *testing.T) {
	svc, period := newService(t)

	days, err := svc.DailySales(context.Background(), period)
	if err != nil {
		t.Fatal(err)
	}
	want := []domain.DaySales{
		{Date: "2026-03-01", Sales: 2, Revenue: dec("15.50")},
		{Date: "2026-03-02", Sales: 1, Revenue: dec("4.50")},
	}
	if len(days) != len(want) {
		t.Fatalf("days = %+v", days)
	}
	for i := range want {
		if days[i].Date != want[i].Date || days[i].Sales != want[i].Sales || !days[i].Revenue.Equal(want[i].Revenue) {
			t.Errorf("day %d = %+v, want %+v", i, days[i], want[i])
		}
	}

	_, err = svc.DailySales(context.Background(), domain.Period{From: period.From, To: period.From.AddDate(2, 0, 0)})
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("two year range: %v, want invalid input", err)
	}
}

func TestExportSales(t *testing.T) {
	svc, period := newService(t)

	buf, err := svc.ExportSales(context.Background(), period, "")
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sales")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want header and 4 sales", len(rows))
	}
	if rows[0][0] != "Receipt" || rows[0][10] != "Total" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "RCP-1" || rows[4][0] != "RCP-4" || rows[4][6] != saledomain.StatusCancelled {
		t.Errorf("rows = %v", rows[1:])
	}

	cancelled, err := svc.ExportSales(context.Background(), period, saledomain.StatusCancelled)
	if err != nil {
		t.Fatal(err)
	}
	f2, err := excelize.OpenReader(cancelled)
	if err != nil {
		t.Fatal(err)
	}
	defer f2.Close()
	if rows, _ := f2.GetRows("Sales"); len(rows) != 2 {
		t.Errorf("cancelled export has %d rows, want 2", len(rows))
	}

	if _, err := svc.ExportSales(context.Background(), period, "bogus"); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("unknown status: %v, want invalid input", err)
	}
}
