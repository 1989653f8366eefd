package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/catering-api/internal/domains/customers/domain"
	"github.com/Apurer/catering-api/internal/domains/customers/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory customer persistence adapter.
type Repository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer
	byEmail   map[string]string
}

func NewRepository() *Repository {
	return &Repository{
		customers: map[string]*domain.Customer{},
		byEmail:   map[string]string{},
	}
}

func (r *Repository) Create(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[customer.Email]; taken {
		return nil, ports.ErrDuplicateEmail
	}
	clone := r.insertLocked(*customer)
	return &clone, nil
}

// UpsertByEmail holds the write lock across lookup and write, so concurrent
// orders for the same email converge on one record.
func (r *Repository) UpsertByEmail(_ context.Context, contact domain.Contact) (*domain.Customer, error) {
	contact = contact.Normalize()
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byEmail[contact.Email]; ok {
		existing := r.customers[id]
		existing.Merge(contact)
		existing.UpdatedAt = time.Now().UTC()
		clone := *existing
		return &clone, nil
	}
	customer, err := domain.NewCustomer(contact)
	if err != nil {
		return nil, err
	}
	clone := r.insertLocked(*customer)
	return &clone, nil
}

func (r *Repository) insertLocked(customer domain.Customer) domain.Customer {
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = now
	}
	customer.UpdatedAt = now
	stored := customer
	r.customers[customer.ID] = &stored
	r.byEmail[customer.Email] = customer.ID
	return customer
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *customer
	return &clone, nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Customer, 0, len(r.customers))
	for _, customer := range r.customers {
		clone := *customer
		list = append(list, &clone)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *Repository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.customers)), nil
}
