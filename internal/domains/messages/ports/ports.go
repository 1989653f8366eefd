package ports

import (
	"context"
	"errors"

	"github.com/Apurer/catering-api/internal/domains/messages/domain"
)

var ErrNotFound = errors.New("message not found")

// Repository persists contact messages.
type Repository interface {
	Create(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	// List returns messages newest first.
	List(ctx context.Context) ([]*domain.Message, error)
	MarkRead(ctx context.Context, id string) (*domain.Message, error)
	Delete(ctx context.Context, id string) error
}

// Service exposes the contact inbox.
type Service interface {
	Submit(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	List(ctx context.Context) ([]*domain.Message, error)
	MarkRead(ctx context.Context, id string) (*domain.Message, error)
	Delete(ctx context.Context, id string) error
}
