package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Apurer/catering-api/internal/domains/orders/application/types"
	"github.com/Apurer/catering-api/internal/domains/orders/domain"
)

var (
	ErrDishNotFound     = errors.New("dish not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidContact   = errors.New("customer contact is invalid")
)

// DishCatalog looks up the dishes order items point at.
type DishCatalog interface {
	// LookupDish fails with ErrDishNotFound for unknown dishes.
	LookupDish(ctx context.Context, id string) (*domain.Dish, error)
}

// CustomerDirectory resolves who placed an order.
type CustomerDirectory interface {
	// LookupCustomer fails with ErrCustomerNotFound for unknown ids.
	LookupCustomer(ctx context.Context, id string) (*domain.Customer, error)
	// ResolveCustomer finds or creates the customer matching contact.
	ResolveCustomer(ctx context.Context, contact types.Contact) (*domain.Customer, error)
}

// PricingPolicy decides the delivery fee for a subtotal.
type PricingPolicy interface {
	DeliveryFee(ctx context.Context, subtotal decimal.Decimal) (decimal.Decimal, error)
}

// WorkflowOrchestrator runs order placement, durably when available.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error)
}
