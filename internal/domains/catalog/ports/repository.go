package ports

import (
	"context"
	"errors"

	"github.com/Apurer/catering-api/internal/domains/catalog/domain"
)

var (
	ErrDishNotFound     = errors.New("dish not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrDuplicateSlug    = errors.New("category slug already in use")
	// ErrCategoryInUse blocks deleting a category that dishes still reference.
	ErrCategoryInUse = errors.New("category still has dishes")
)

// DishRepository persists dishes. Reads return the dish with its category attached.
type DishRepository interface {
	Save(ctx context.Context, dish *domain.Dish) (*domain.Dish, error)
	GetByID(ctx context.Context, id string) (*domain.Dish, error)
	List(ctx context.Context, filter domain.DishFilter) ([]*domain.Dish, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
	// AdjustRating applies a review score change to the dish aggregate atomically.
	AdjustRating(ctx context.Context, id string, change domain.RatingChange) (*domain.Dish, error)
}

// CategoryRepository persists categories. List fills DishCount.
type CategoryRepository interface {
	Save(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Delete(ctx context.Context, id string) error
}
