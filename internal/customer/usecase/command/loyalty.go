package command

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tair/grocery-pos/internal/customer/domain"
	"github.com/tair/grocery-pos/pkg/logger"
)

// Loyalty awards one point per whole currency unit of a completed sale
type Loyalty struct {
	repo domain.CustomerRepository
}

func NewLoyalty(repo domain.CustomerRepository) *Loyalty {
	return &Loyalty{repo: repo}
}

// PointsFor returns the points earned by a sale total
func PointsFor(total decimal.Decimal) int {
	if !total.IsPositive() {
		return 0
	}
	return int(total.Floor().IntPart())
}

// Award credits the points of a completed sale. Failures are logged.
func (l *Loyalty) Award(ctx context.Context, customerID uint, total decimal.Decimal) {
	l.add(ctx, customerID, PointsFor(total))
}

// Revoke takes back the points of a cancelled sale. Failures are logged.
func (l *Loyalty) Revoke(ctx context.Context, customerID uint, total decimal.Decimal) {
	l.add(ctx, customerID, -PointsFor(total))
}

func (l *Loyalty) add(ctx context.Context, customerID uint, points int) {
	if points == 0 {
		return
	}
	if err := l.repo.AddLoyaltyPoints(ctx, customerID, points); err != nil {
		logger.Warn(ctx).Err(err).
			Uint("customer_id", customerID).
			Int("points", points).
			Msg("Loyalty points update failed")
	}
}
