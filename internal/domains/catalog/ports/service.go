package ports

import (
	"context"

	"github.com/Apurer/catering-api/internal/domains/catalog/domain"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	ListDishes(ctx context.Context, filter domain.DishFilter) ([]*domain.Dish, error)
	GetDish(ctx context.Context, id string) (*domain.Dish, error)
	CreateDish(ctx context.Context, dish *domain.Dish) (*domain.Dish, error)
	UpdateDish(ctx context.Context, id string, patch domain.DishPatch) (*domain.Dish, error)
	DeleteDish(ctx context.Context, id string) error
	CountDishes(ctx context.Context) (int64, error)
	ApplyReviewRating(ctx context.Context, dishID string, rating int) (*domain.Dish, error)
	AdjustReviewRating(ctx context.Context, dishID string, change domain.RatingChange) (*domain.Dish, error)

	ListCategories(ctx context.Context) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, category *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}
