package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/grocery-pos/internal/report/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/cache"
)

const maxDailyRange = 366 * 24 * time.Hour

// ReportService answers report queries through a Redis cache. Sale changes
// invalidate the cache.
type ReportService struct {
	repo  domain.ReportRepository
	cache *cache.Cache
	now   func() time.Time
}

func NewReportService(repo domain.ReportRepository, c *cache.Cache) *ReportService {
	return &ReportService{repo: repo, cache: c, now: time.Now}
}

func validPeriod(p domain.Period) error {
	if !p.From.IsZero() && !p.To.IsZero() && !p.To.After(p.From) {
		return apperror.InvalidInput("to must be after from")
	}
	return nil
}

func cached[T any](ctx context.Context, c *cache.Cache, key string, load func() (T, error)) (T, error) {
	var v T
	if c.Get(ctx, key, &v) {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Set(ctx, key, v)
	return v, nil
}

func (s *ReportService) SalesSummary(ctx context.Context, p domain.Period) (*domain.SalesSummary, error) {
	if err := validPeriod(p); err != nil {
		return nil, err
	}
	return cached(ctx, s.cache, s.cache.Key("sales_summary", p.From, p.To), func() (*domain.SalesSummary, error) {
		return s.repo.SalesSummary(ctx, p)
	})
}

func (s *ReportService) TopProducts(ctx context.Context, p domain.Period, limit int) ([]domain.ProductSales, error) {
	if err := validPeriod(p); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return cached(ctx, s.cache, s.cache.Key("top_products", p.From, p.To, limit), func() ([]domain.ProductSales, error) {
		return s.repo.TopProducts(ctx, p, limit)
	})
}

// InventoryValuation is not cached: stock moves with every sale line
func (s *ReportService) InventoryValuation(ctx context.Context) (*domain.InventoryValuation, error) {
	return s.repo.InventoryValuation(ctx)
}

// DailySales totals completed sales per UTC day. Without bounds it covers
// the last 30 days.
func (s *ReportService) DailySales(ctx context.Context, p domain.Period) ([]domain.DaySales, error) {
	if p.To.IsZero() {
		p.To = s.now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 1)
	}
	if p.From.IsZero() {
		p.From = p.To.AddDate(0, 0, -30)
	}
	if err := validPeriod(p); err != nil {
		return nil, err
	}
	if p.To.Sub(p.From) > maxDailyRange {
		return nil, apperror.InvalidInput("daily report range is limited to one year")
	}

	return cached(ctx, s.cache, s.cache.Key("daily_sales", p.From, p.To), func() ([]domain.DaySales, error) {
		rows, err := s.repo.SaleRows(ctx, p, "completed")
		if err != nil {
			return nil, err
		}
		return bucketByDay(rows), nil
	})
}

func bucketByDay(rows []domain.SaleRow) []domain.DaySales {
	days := []domain.DaySales{}
	index := make(map[string]int)
	for _, row := range rows {
		date := row.CreatedAt.UTC().Format("2006-01-02")
		i, ok := index[date]
		if !ok {
			i = len(days)
			index[date] = i
			days = append(days, domain.DaySales{Date: date, Revenue: decimal.Zero})
		}
		days[i].Sales++
		days[i].Revenue = days[i].Revenue.Add(row.TotalAmount)
	}
	for i := range days {
		days[i].Revenue = days[i].Revenue.Round(2)
	}
	return days
}
