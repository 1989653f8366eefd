package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Apurer/catering-api/internal/domains/admins/adapters/persistence/postgres"
	"github.com/Apurer/catering-api/internal/domains/admins/domain"
	"github.com/Apurer/catering-api/internal/domains/admins/ports"
	"github.com/Apurer/catering-api/internal/platform/testdb"
)

func TestAdmins_UniqueEmail(t *testing.T) {
	repo := postgres.NewRepository(testdb.Open(t))
	ctx := context.Background()

	admin, err := domain.NewAdmin("owner@traiteur.tn", "Owner", "secret1", bcrypt.MinCost)
	require.NoError(t, err)
	created, err := repo.Create(ctx, admin)
	require.NoError(t, err)

	_, err = repo.Create(ctx, admin)
	require.ErrorIs(t, err, ports.ErrEmailTaken)

	got, err := repo.GetByEmail(ctx, "owner@traiteur.tn")
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
	require.True(t, got.CheckPassword("secret1"))

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSessionStore_PurgeExpired(t *testing.T) {
	store := postgres.NewSessionStore(testdb.Open(t))
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Save(ctx, domain.Session{ID: "s-old", AdminID: "a1", ExpiresAt: now.Add(-time.Hour), CreatedAt: now.Add(-25 * time.Hour)}))
	require.NoError(t, store.Save(ctx, domain.Session{ID: "s-live", AdminID: "a1", ExpiresAt: now.Add(time.Hour), CreatedAt: now}))

	purged, err := store.PurgeExpired(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)

	_, err = store.Get(ctx, "s-old")
	require.ErrorIs(t, err, ports.ErrNotFound)
	live, err := store.Get(ctx, "s-live")
	require.NoError(t, err)
	require.Equal(t, "a1", live.AdminID)

	require.NoError(t, store.Delete(ctx, "s-live"))
	_, err = store.Get(ctx, "s-live")
	require.ErrorIs(t, err, ports.ErrNotFound)
}
