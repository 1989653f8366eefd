package ports

import (
	"context"
	"errors"

	"github.com/Apurer/catering-api/internal/domains/orders/domain"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrStatusConflict reports that the order changed status between read and write.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// ListFilter narrows order listings. Empty fields match everything.
type ListFilter struct {
	CustomerID string
	Statuses   []domain.Status
}

// Repository persists orders together with their items.
type Repository interface {
	// Create stores the order and all of its items atomically.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// List returns matching orders newest first.
	List(ctx context.Context, filter ListFilter) ([]*domain.Order, error)
	// UpdateStatus sets the status only when the stored one still equals from,
	// failing with ErrStatusConflict otherwise.
	UpdateStatus(ctx context.Context, id string, from, to domain.Status) (*domain.Order, error)
	Summarize(ctx context.Context) (domain.Summary, error)
	CountByCustomer(ctx context.Context) (map[string]int64, error)
}
