package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/catering-api/internal/domains/menus/domain"
	"github.com/Apurer/catering-api/internal/domains/menus/ports"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid menu input")

// Service manages saved menus.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, customerID string) ([]*domain.SavedMenu, error) {
	return s.repo.List(ctx, strings.TrimSpace(customerID))
}

func (s *Service) Create(ctx context.Context, menu *domain.SavedMenu) (*domain.SavedMenu, error) {
	if menu == nil {
		return nil, errors.New("menu is nil")
	}
	menu.ID = ""
	if err := menu.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s.repo.Create(ctx, menu)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

var _ ports.Service = (*Service)(nil)
