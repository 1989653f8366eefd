package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Apurer/catering-api/internal/domains/admins/adapters/memory"
	"github.com/Apurer/catering-api/internal/domains/admins/adapters/token"
	"github.com/Apurer/catering-api/internal/domains/admins/domain"
	"github.com/Apurer/catering-api/internal/domains/admins/ports"
)

type fixture struct {
	svc      *Service
	sessions *memory.SessionStore
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	issuer, err := token.NewJWTIssuer("test-secret")
	require.NoError(t, err)
	f := &fixture{sessions: memory.NewSessionStore(), now: time.Now().UTC()}
	f.svc = NewService(memory.NewRepository(), f.sessions, issuer,
		WithHashCost(bcrypt.MinCost),
		WithClock(func() time.Time { return f.now }),
	)
	return f
}

func TestRegister_HashesAndRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin, err := f.svc.Register(ctx, " Owner@Traiteur.tn ", "Owner", "secret1")
	require.NoError(t, err)
	require.Equal(t, "owner@traiteur.tn", admin.Email)
	require.NotEqual(t, "secret1", admin.PasswordHash)
	require.True(t, admin.CheckPassword("secret1"))

	_, err = f.svc.Register(ctx, "owner@traiteur.tn", "Again", "secret2")
	require.ErrorIs(t, err, ports.ErrEmailTaken)

	_, err = f.svc.Register(ctx, "x@y.tn", "", "123")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrWeakPassword)
}

func TestLoginAuthenticateLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, "owner@traiteur.tn", "Owner", "secret1")
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "owner@traiteur.tn", "wrong")
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, "nobody@traiteur.tn", "secret1")
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)

	result, err := f.svc.Login(ctx, "OWNER@traiteur.tn", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.WithinDuration(t, f.now.Add(24*time.Hour), result.ExpiresAt, time.Second)

	admin, err := f.svc.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	require.Equal(t, result.Admin.ID, admin.ID)

	require.NoError(t, f.svc.Logout(ctx, result.Token))
	_, err = f.svc.Authenticate(ctx, result.Token)
	require.ErrorIs(t, err, ports.ErrUnauthenticated)

	_, err = f.svc.Authenticate(ctx, "not-a-token")
	require.ErrorIs(t, err, ports.ErrUnauthenticated)
}

func TestPurgeExpiredSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, "owner@traiteur.tn", "Owner", "secret1")
	require.NoError(t, err)
	_, err = f.svc.Login(ctx, "owner@traiteur.tn", "secret1")
	require.NoError(t, err)

	purged, err := f.sessions.PurgeExpired(ctx, f.now.Add(time.Hour))
	require.NoError(t, err)
	require.Zero(t, purged)

	purged, err = f.sessions.PurgeExpired(ctx, f.now.Add(25*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)
}

func TestEnsureAdmin_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.EnsureAdmin(ctx, "boot@traiteur.tn", "", "bootpass")
	require.NoError(t, err)
	require.Equal(t, "boot", first.Name)
	second, err := f.svc.EnsureAdmin(ctx, "BOOT@traiteur.tn", "", "other-pass")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}
