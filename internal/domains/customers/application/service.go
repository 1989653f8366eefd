package application

import (
	"context"
	"strings"

	"github.com/Apurer/catering-api/internal/domains/customers/domain"
	"github.com/Apurer/catering-api/internal/domains/customers/ports"
)

// Service orchestrates customer use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// Resolve merges contact into the customer sharing its email, creating one if
// needed. Without an email a guest placeholder is generated, so the guest gets
// a fresh record every time.
func (s *Service) Resolve(ctx context.Context, contact domain.Contact) (*domain.Customer, error) {
	contact = contact.Normalize()
	if err := contact.ValidateEmail(); err != nil {
		return nil, mapError(err)
	}
	if contact.Email == "" {
		contact.Email = domain.GuestEmail()
	}
	customer, err := s.repo.UpsertByEmail(ctx, contact)
	if err != nil {
		return nil, mapError(err)
	}
	return customer, nil
}

// Register creates a customer explicitly. Duplicate emails are rejected.
func (s *Service) Register(ctx context.Context, contact domain.Contact) (*domain.Customer, error) {
	customer, err := domain.NewCustomer(contact)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Create(ctx, customer)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Customer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ports.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*domain.Customer, error) {
	return s.repo.List(ctx)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

var _ ports.Service = (*Service)(nil)
