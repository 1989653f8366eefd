package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/catering-api/internal/domains/menus/adapters/memory"
	"github.com/Apurer/catering-api/internal/domains/menus/domain"
	"github.com/Apurer/catering-api/internal/domains/menus/ports"
)

func TestCreate_ValidatesAndDefaultsQuantity(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	menu, err := svc.Create(ctx, &domain.SavedMenu{Name: " Iftar ", Items: []domain.Item{{DishID: "d1"}, {DishID: "d2", Quantity: 3}}})
	require.NoError(t, err)
	require.NotEmpty(t, menu.ID)
	require.Equal(t, "Iftar", menu.Name)
	require.Equal(t, 1, menu.Items[0].Quantity)
	require.Equal(t, 3, menu.Items[1].Quantity)

	_, err = svc.Create(ctx, &domain.SavedMenu{Name: "Vide"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrItemsRequired)

	_, err = svc.Create(ctx, &domain.SavedMenu{Items: []domain.Item{{DishID: "d1"}}})
	require.ErrorIs(t, err, domain.ErrNameRequired)

	_, err = svc.Create(ctx, &domain.SavedMenu{Name: "x", Items: []domain.Item{{DishID: "d1", Quantity: -1}}})
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestList_FiltersByCustomerAndDelete(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	mine, err := svc.Create(ctx, &domain.SavedMenu{Name: "A", CustomerID: "c1", Items: []domain.Item{{DishID: "d1"}}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &domain.SavedMenu{Name: "B", Items: []domain.Item{{DishID: "d1"}}})
	require.NoError(t, err)

	list, err := svc.List(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, svc.Delete(ctx, mine.ID))
	require.ErrorIs(t, svc.Delete(ctx, mine.ID), ports.ErrNotFound)
}
