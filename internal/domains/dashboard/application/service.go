package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Apurer/catering-api/internal/domains/dashboard/ports"
)

// Service aggregates the dashboard figures from the other contexts.
type Service struct {
	orders    ports.OrderSummarizer
	dishes    ports.DishCounter
	customers ports.CustomerCounter
}

func NewService(orders ports.OrderSummarizer, dishes ports.DishCounter, customers ports.CustomerCounter) *Service {
	return &Service{orders: orders, dishes: dishes, customers: customers}
}

func (s *Service) Stats(ctx context.Context) (ports.Stats, error) {
	summary, err := s.orders.Summary(ctx)
	if err != nil {
		return ports.Stats{}, fmt.Errorf("summarize orders: %w", err)
	}
	dishes, err := s.dishes.CountDishes(ctx)
	if err != nil {
		return ports.Stats{}, fmt.Errorf("count dishes: %w", err)
	}
	customers, err := s.customers.Count(ctx)
	if err != nil {
		return ports.Stats{}, fmt.Errorf("count customers: %w", err)
	}
	stats := ports.Stats{
		TotalOrders:    summary.TotalOrders,
		PendingOrders:  summary.PendingOrders,
		TotalRevenue:   summary.Revenue,
		AvgOrderValue:  decimal.Zero,
		TotalDishes:    dishes,
		TotalCustomers: customers,
	}
	if summary.TotalOrders > 0 {
		stats.AvgOrderValue = summary.Revenue.Div(decimal.NewFromInt(summary.TotalOrders)).Round(2)
	}
	return stats, nil
}

var _ ports.Service = (*Service)(nil)
