package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/catering-api/internal/domains/menus/adapters/persistence/postgres"
	"github.com/Apurer/catering-api/internal/domains/menus/domain"
	"github.com/Apurer/catering-api/internal/domains/menus/ports"
	"github.com/Apurer/catering-api/internal/platform/testdb"
)

func TestMenus_ItemsRoundTripAsJSON(t *testing.T) {
	repo := postgres.NewRepository(testdb.Open(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.SavedMenu{
		Name:       "Fiançailles",
		CustomerID: "c1",
		Items:      []domain.Item{{DishID: "d1", Quantity: 3}, {DishID: "d2", Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.SavedMenu{Name: "Maison", Items: []domain.Item{{DishID: "d3", Quantity: 1}}})
	require.NoError(t, err)

	mine, err := repo.List(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, []domain.Item{{DishID: "d1", Quantity: 3}, {DishID: "d2", Quantity: 1}}, mine[0].Items)

	require.NoError(t, repo.Delete(ctx, created.ID))
	require.ErrorIs(t, repo.Delete(ctx, created.ID), ports.ErrNotFound)
}
