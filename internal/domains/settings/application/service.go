package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Apurer/catering-api/internal/domains/settings/domain"
	"github.com/Apurer/catering-api/internal/domains/settings/ports"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid settings input")

// Service reads and updates the global settings, creating them lazily.
type Service struct {
	repo   ports.Repository
	cache  ports.Cache
	logger *slog.Logger
}

// NewService wires the repository. cache may be nil to disable caching.
func NewService(repo ports.Repository, cache ports.Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, logger: logger}
}

func (s *Service) Get(ctx context.Context) (*domain.Settings, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "settings cache read failed", slog.String("error", err.Error()))
		} else if ok {
			return cached, nil
		}
	}
	settings, err := s.repo.Get(ctx)
	if errors.Is(err, ports.ErrNotFound) {
		settings, err = s.repo.Save(ctx, domain.Defaults())
	}
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, settings); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "settings cache write failed", slog.String("error", err.Error()))
		}
	}
	return settings, nil
}

func (s *Service) Update(ctx context.Context, patch domain.Patch) (*domain.Settings, error) {
	current, err := s.repo.Get(ctx)
	if errors.Is(err, ports.ErrNotFound) {
		current, err = domain.Defaults(), nil
	}
	if err != nil {
		return nil, err
	}
	if err := current.Apply(patch); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	saved, err := s.repo.Save(ctx, current)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "settings cache invalidation failed", slog.String("error", err.Error()))
		}
	}
	return saved, nil
}

// DeliveryFee prices delivery for an order subtotal.
func (s *Service) DeliveryFee(ctx context.Context, subtotal decimal.Decimal) (decimal.Decimal, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return settings.DeliveryFeeFor(subtotal), nil
}

var _ ports.Service = (*Service)(nil)
