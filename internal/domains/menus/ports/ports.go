package ports

import (
	"context"
	"errors"

	"github.com/Apurer/catering-api/internal/domains/menus/domain"
)

var ErrNotFound = errors.New("menu not found")

// Repository persists saved menus.
type Repository interface {
	Create(ctx context.Context, menu *domain.SavedMenu) (*domain.SavedMenu, error)
	// List returns menus newest first, limited to one customer when customerID is set.
	List(ctx context.Context, customerID string) ([]*domain.SavedMenu, error)
	Delete(ctx context.Context, id string) error
}

// Service exposes saved menu use cases to adapters.
type Service interface {
	List(ctx context.Context, customerID string) ([]*domain.SavedMenu, error)
	Create(ctx context.Context, menu *domain.SavedMenu) (*domain.SavedMenu, error)
	Delete(ctx context.Context, id string) error
}
