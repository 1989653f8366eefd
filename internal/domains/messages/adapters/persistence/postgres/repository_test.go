package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/catering-api/internal/domains/messages/adapters/persistence/postgres"
	"github.com/Apurer/catering-api/internal/domains/messages/domain"
	"github.com/Apurer/catering-api/internal/domains/messages/ports"
	"github.com/Apurer/catering-api/internal/platform/testdb"
)

func TestMessages_MarkReadAndDelete(t *testing.T) {
	repo := postgres.NewRepository(testdb.Open(t))
	ctx := context.Background()

	msg, err := repo.Create(ctx, &domain.Message{Name: "Sara", Email: "sara@example.com", Body: "Devis pour 50 personnes"})
	require.NoError(t, err)
	require.False(t, msg.IsRead)

	read, err := repo.MarkRead(ctx, msg.ID)
	require.NoError(t, err)
	require.True(t, read.IsRead)
	require.Equal(t, "Devis pour 50 personnes", read.Body)

	_, err = repo.MarkRead(ctx, "missing")
	require.ErrorIs(t, err, ports.ErrNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, msg.ID))
	require.ErrorIs(t, repo.Delete(ctx, msg.ID), ports.ErrNotFound)
}
