package collaborators

import (
	"context"
	"errors"
	"fmt"

	customerapp "github.com/Apurer/catering-api/internal/domains/customers/application"
	customerdomain "github.com/Apurer/catering-api/internal/domains/customers/domain"
	customerports "github.com/Apurer/catering-api/internal/domains/customers/ports"
	"github.com/Apurer/catering-api/internal/domains/orders/application/types"
	"github.com/Apurer/catering-api/internal/domains/orders/domain"
	"github.com/Apurer/catering-api/internal/domains/orders/ports"
)

var _ ports.CustomerDirectory = (*Customers)(nil)

// Customers exposes the customers context to order placement.
type Customers struct {
	service customerports.Service
}

func NewCustomers(service customerports.Service) *Customers {
	return &Customers{service: service}
}

func (c *Customers) LookupCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := c.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, customerports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ports.ErrCustomerNotFound, id)
		}
		return nil, err
	}
	return toOrderCustomer(customer), nil
}

func (c *Customers) ResolveCustomer(ctx context.Context, contact types.Contact) (*domain.Customer, error) {
	customer, err := c.service.Resolve(ctx, customerdomain.Contact{
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Address:   contact.Address,
	})
	if err != nil {
		if errors.Is(err, customerapp.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %w", ports.ErrInvalidContact, err)
		}
		return nil, err
	}
	return toOrderCustomer(customer), nil
}

func toOrderCustomer(c *customerdomain.Customer) *domain.Customer {
	return &domain.Customer{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
	}
}
