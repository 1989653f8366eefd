// Package collaborators adapts the orders context to the review port.
package collaborators

import (
	"context"
	"errors"

	orderports "github.com/Apurer/catering-api/internal/domains/orders/ports"
	"github.com/Apurer/catering-api/internal/domains/reviews/ports"
)

var _ ports.OrderLookup = (*Orders)(nil)

// Orders checks reviewed orders against the orders service.
type Orders struct {
	service orderports.Service
}

func NewOrders(service orderports.Service) *Orders {
	return &Orders{service: service}
}

func (o *Orders) OrderDishes(ctx context.Context, orderID string) ([]string, error) {
	order, err := o.service.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, orderports.ErrNotFound) {
			return nil, ports.ErrOrderNotFound
		}
		return nil, err
	}
	return order.DishIDs(), nil
}
