package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Apurer/catering-api/internal/domains/settings/domain"
)

var ErrNotFound = errors.New("settings not found")

// Repository stores the singleton settings record.
type Repository interface {
	// Get fails with ErrNotFound until settings are first saved.
	Get(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, settings *domain.Settings) (*domain.Settings, error)
}

// Cache keeps a read-through copy of the settings.
type Cache interface {
	// Get reports false on a miss.
	Get(ctx context.Context) (*domain.Settings, bool, error)
	Set(ctx context.Context, settings *domain.Settings) error
	Invalidate(ctx context.Context) error
}

// Service exposes settings use cases to adapters.
type Service interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, patch domain.Patch) (*domain.Settings, error)
	DeliveryFee(ctx context.Context, subtotal decimal.Decimal) (decimal.Decimal, error)
}
