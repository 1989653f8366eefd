package postgres_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/catering-api/internal/domains/catalog/adapters/persistence/postgres"
	"github.com/Apurer/catering-api/internal/domains/catalog/application"
	"github.com/Apurer/catering-api/internal/domains/catalog/domain"
	"github.com/Apurer/catering-api/internal/domains/catalog/ports"
	"github.com/Apurer/catering-api/internal/platform/testdb"
)

func newService(t *testing.T) *application.Service {
	t.Helper()
	dishes, categories := postgres.NewRepositories(testdb.Open(t))
	return application.NewService(dishes, categories)
}

func TestCatalog_RoundTripWithCategoryAndPortions(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, &domain.Category{Name: "Plats chauds"})
	require.NoError(t, err)
	require.Equal(t, "plats-chauds", category.Slug)

	_, err = svc.CreateCategory(ctx, &domain.Category{Name: "Plats Chauds"})
	require.ErrorIs(t, err, ports.ErrDuplicateSlug)

	dish, err := svc.CreateDish(ctx, &domain.Dish{
		Name:        "Couscous",
		CategoryID:  category.ID,
		Price:       decimal.RequireFromString("12.50"),
		Portions:    []string{"2 pers", "4 pers"},
		IsAvailable: true,
	})
	require.NoError(t, err)
	require.Equal(t, "12.50", dish.Price.StringFixed(2))
	require.Equal(t, []string{"2 pers", "4 pers"}, dish.Portions)
	require.NotNil(t, dish.Category)
	require.Equal(t, "plats-chauds", dish.Category.Slug)

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	require.EqualValues(t, 1, categories[0].DishCount)

	err = svc.DeleteCategory(ctx, category.ID)
	require.ErrorIs(t, err, ports.ErrCategoryInUse)
}

func TestCatalog_ListFiltersAndSorts(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	mains, err := svc.CreateCategory(ctx, &domain.Category{Name: "Plats"})
	require.NoError(t, err)
	sweets, err := svc.CreateCategory(ctx, &domain.Category{Name: "Desserts"})
	require.NoError(t, err)

	for _, d := range []*domain.Dish{
		{Name: "Couscous", CategoryID: mains.ID, Price: decimal.NewFromInt(15)},
		{Name: "Ojja", Description: "oeufs et merguez", CategoryID: mains.ID, Price: decimal.NewFromInt(9)},
		{Name: "Baklawa", CategoryID: sweets.ID, Price: decimal.NewFromInt(20)},
	} {
		_, err := svc.CreateDish(ctx, d)
		require.NoError(t, err)
	}

	list, err := svc.ListDishes(ctx, domain.DishFilter{CategorySlug: "plats", Sort: domain.SortPriceLow})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Ojja", list[0].Name)

	list, err = svc.ListDishes(ctx, domain.DishFilter{Search: "MERGUEZ"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = svc.ListDishes(ctx, domain.DishFilter{Sort: domain.SortPriceHigh})
	require.NoError(t, err)
	require.Equal(t, "Baklawa", list[0].Name)

	count, err := svc.CountDishes(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)
}

func TestCatalog_ApplyRatingIsAtomicFold(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	category, err := svc.CreateCategory(ctx, &domain.Category{Name: "Plats"})
	require.NoError(t, err)
	dish, err := svc.CreateDish(ctx, &domain.Dish{Name: "Lablabi", CategoryID: category.ID, Price: decimal.NewFromInt(5)})
	require.NoError(t, err)

	_, err = svc.ApplyReviewRating(ctx, dish.ID, 5)
	require.NoError(t, err)
	updated, err := svc.ApplyReviewRating(ctx, dish.ID, 4)
	require.NoError(t, err)
	require.InDelta(t, 4.5, updated.Rating, 1e-9)
	require.Equal(t, 2, updated.Reviews)

	updated, err = svc.AdjustReviewRating(ctx, dish.ID, domain.RatingChange{Removed: 4, Added: 2})
	require.NoError(t, err)
	require.InDelta(t, 3.5, updated.Rating, 1e-9)
	require.Equal(t, 2, updated.Reviews)

	updated, err = svc.AdjustReviewRating(ctx, dish.ID, domain.RatingChange{Removed: 5})
	require.NoError(t, err)
	require.InDelta(t, 2.0, updated.Rating, 1e-9)
	require.Equal(t, 1, updated.Reviews)

	_, err = svc.ApplyReviewRating(ctx, "missing", 5)
	require.ErrorIs(t, err, ports.ErrDishNotFound)
	_, err = svc.AdjustReviewRating(ctx, "missing", domain.RatingChange{Removed: 5})
	require.ErrorIs(t, err, ports.ErrDishNotFound)

	require.NoError(t, svc.DeleteDish(ctx, dish.ID))
	require.NoError(t, svc.DeleteCategory(ctx, category.ID))
}
