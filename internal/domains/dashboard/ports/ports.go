package ports

import (
	"context"

	"github.com/shopspring/decimal"

	orderdomain "github.com/Apurer/catering-api/internal/domains/orders/domain"
)

// Stats is the back-office dashboard snapshot.
type Stats struct {
	TotalOrders    int64
	PendingOrders  int64
	TotalRevenue   decimal.Decimal
	AvgOrderValue  decimal.Decimal
	TotalDishes    int64
	TotalCustomers int64
}

type OrderSummarizer interface {
	Summary(ctx context.Context) (orderdomain.Summary, error)
}

type DishCounter interface {
	CountDishes(ctx context.Context) (int64, error)
}

type CustomerCounter interface {
	Count(ctx context.Context) (int64, error)
}

type Service interface {
	Stats(ctx context.Context) (Stats, error)
}
