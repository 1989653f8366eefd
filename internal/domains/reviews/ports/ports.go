package ports

import (
	"context"
	"errors"

	"github.com/Apurer/catering-api/internal/domains/reviews/domain"
)

var (
	ErrNotFound      = errors.New("review not found")
	ErrOrderNotFound = errors.New("reviewed order not found")
)

// Repository persists reviews, at most one per order.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Review, error)
	// Upsert writes the review keyed by its order id and reports whether a
	// new row was created.
	Upsert(ctx context.Context, review *domain.Review) (*domain.Review, bool, error)
	// Approve sets the approval flag, counts the current rating as applied
	// and reports the score it replaced.
	Approve(ctx context.Context, id string) (*domain.Approval, error)
	// List returns reviews newest first.
	List(ctx context.Context, approvedOnly bool) ([]*domain.Review, error)
	// Delete removes the review and returns it as it was stored.
	Delete(ctx context.Context, id string) (*domain.Review, error)
}

// OrderLookup checks the reviewed order and reports its dishes.
type OrderLookup interface {
	// OrderDishes fails with ErrOrderNotFound for unknown orders.
	OrderDishes(ctx context.Context, orderID string) ([]string, error)
}

// Service exposes review use cases to adapters.
type Service interface {
	// Submit creates or replaces the review of an order; created reports which.
	Submit(ctx context.Context, submission domain.Submission) (review *domain.Review, created bool, err error)
	Approve(ctx context.Context, id string) (*domain.Review, error)
	ListApproved(ctx context.Context) ([]*domain.Review, error)
	ListAll(ctx context.Context) ([]*domain.Review, error)
	Delete(ctx context.Context, id string) error
}
