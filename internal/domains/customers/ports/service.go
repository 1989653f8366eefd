package ports

import (
	"context"

	"github.com/Apurer/catering-api/internal/domains/customers/domain"
)

// Service exposes customer use cases to adapters.
type Service interface {
	// Resolve finds or creates the customer an order belongs to.
	Resolve(ctx context.Context, contact domain.Contact) (*domain.Customer, error)
	Register(ctx context.Context, contact domain.Contact) (*domain.Customer, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
	Count(ctx context.Context) (int64, error)
}
