package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/catering-api/internal/domains/catalog/domain"
	"github.com/Apurer/catering-api/internal/domains/catalog/ports"
)

// Service orchestrates catalog use cases.
type Service struct {
	dishes     ports.DishRepository
	categories ports.CategoryRepository
}

func NewService(dishes ports.DishRepository, categories ports.CategoryRepository) *Service {
	return &Service{dishes: dishes, categories: categories}
}

func (s *Service) ListDishes(ctx context.Context, filter domain.DishFilter) ([]*domain.Dish, error) {
	if filter.CategorySlug == "all" {
		filter.CategorySlug = ""
	}
	return s.dishes.List(ctx, filter)
}

func (s *Service) GetDish(ctx context.Context, id string) (*domain.Dish, error) {
	return s.dishes.GetByID(ctx, id)
}

func (s *Service) CreateDish(ctx context.Context, dish *domain.Dish) (*domain.Dish, error) {
	if dish == nil {
		return nil, errors.New("dish is nil")
	}
	dish.ID = ""
	if err := dish.Validate(); err != nil {
		return nil, mapError(err)
	}
	if err := s.requireCategory(ctx, dish.CategoryID); err != nil {
		return nil, err
	}
	return s.dishes.Save(ctx, dish)
}

func (s *Service) UpdateDish(ctx context.Context, id string, patch domain.DishPatch) (*domain.Dish, error) {
	dish, err := s.dishes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousCategory := dish.CategoryID
	if err := dish.Apply(patch); err != nil {
		return nil, mapError(err)
	}
	if dish.CategoryID != previousCategory {
		if err := s.requireCategory(ctx, dish.CategoryID); err != nil {
			return nil, err
		}
	}
	return s.dishes.Save(ctx, dish)
}

func (s *Service) DeleteDish(ctx context.Context, id string) error {
	return s.dishes.Delete(ctx, id)
}

func (s *Service) CountDishes(ctx context.Context) (int64, error) {
	return s.dishes.Count(ctx)
}

// ApplyReviewRating folds an approved review's score into the dish aggregate.
func (s *Service) ApplyReviewRating(ctx context.Context, dishID string, rating int) (*domain.Dish, error) {
	if rating < 1 || rating > 5 {
		return nil, mapError(domain.ErrInvalidRating)
	}
	return s.AdjustReviewRating(ctx, dishID, domain.RatingChange{Added: rating})
}

// AdjustReviewRating replaces or withdraws a score already counted for a dish.
func (s *Service) AdjustReviewRating(ctx context.Context, dishID string, change domain.RatingChange) (*domain.Dish, error) {
	if err := change.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.dishes.AdjustRating(ctx, dishID, change)
}

func (s *Service) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, errors.New("category is nil")
	}
	category.ID = ""
	if err := category.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.categories.Save(ctx, category)
}

func (s *Service) UpdateCategory(ctx context.Context, id string, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, errors.New("category is nil")
	}
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return nil, err
	}
	category.ID = id
	if err := category.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.categories.Save(ctx, category)
}

// DeleteCategory refuses while any dish still references the category.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return err
	}
	count, err := s.dishes.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d dishes", ports.ErrCategoryInUse, count)
	}
	return s.categories.Delete(ctx, id)
}

func (s *Service) requireCategory(ctx context.Context, id string) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if errors.Is(err, ports.ErrCategoryNotFound) {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return err
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
