package ports

import (
	"context"
	"errors"

	"github.com/Apurer/catering-api/internal/domains/customers/domain"
)

var (
	ErrNotFound       = errors.New("customer not found")
	ErrDuplicateEmail = errors.New("customer email already registered")
)

// Repository persists customers keyed by a unique email.
type Repository interface {
	// Create inserts a new customer and fails with ErrDuplicateEmail when the
	// email is taken.
	Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	// UpsertByEmail atomically inserts a customer built from contact or merges
	// contact's non-empty fields into the existing record with the same email.
	UpsertByEmail(ctx context.Context, contact domain.Contact) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
	Count(ctx context.Context) (int64, error)
}
