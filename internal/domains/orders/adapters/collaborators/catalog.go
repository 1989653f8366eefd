// Package collaborators adapts the catalog, customers and settings contexts
// to the ports the orders context depends on.
package collaborators

import (
	"context"
	"errors"

	catalogports "github.com/Apurer/catering-api/internal/domains/catalog/ports"
	"github.com/Apurer/catering-api/internal/domains/orders/domain"
	"github.com/Apurer/catering-api/internal/domains/orders/ports"
)

var _ ports.DishCatalog = (*Catalog)(nil)

// Catalog exposes catalog dishes to the orders context.
type Catalog struct {
	service catalogports.Service
}

func NewCatalog(service catalogports.Service) *Catalog {
	return &Catalog{service: service}
}

func (c *Catalog) LookupDish(ctx context.Context, id string) (*domain.Dish, error) {
	dish, err := c.service.GetDish(ctx, id)
	if err != nil {
		if errors.Is(err, catalogports.ErrDishNotFound) {
			return nil, ports.ErrDishNotFound
		}
		return nil, err
	}
	return &domain.Dish{
		ID:          dish.ID,
		Name:        dish.Name,
		NameAr:      dish.NameAr,
		Image:       dish.Image,
		Price:       dish.Price,
		IsAvailable: dish.IsAvailable,
	}, nil
}
