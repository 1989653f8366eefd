package ports

import (
	"context"

	"github.com/Apurer/catering-api/internal/domains/orders/application/types"
	"github.com/Apurer/catering-api/internal/domains/orders/domain"
)

// Service exposes order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, input types.ListOrdersInput) ([]*domain.Order, error)
	// UpdateStatus is the admin mutation: any forward move is allowed.
	UpdateStatus(ctx context.Context, id string, status string) (*domain.Order, error)
	// DeliveryQueue lists orders the delivery crew is handling.
	DeliveryQueue(ctx context.Context) ([]*domain.Order, error)
	// AdvanceDelivery moves an order one step along the delivery route.
	AdvanceDelivery(ctx context.Context, id string) (*domain.Order, error)
	Summary(ctx context.Context) (domain.Summary, error)
	OrdersPerCustomer(ctx context.Context) (map[string]int64, error)
}
