package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/catering-api/internal/domains/admins/ports"
)

func TestIssueAndParse(t *testing.T) {
	issuer, err := NewJWTIssuer("secret")
	require.NoError(t, err)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw, err := issuer.Issue(ports.Claims{AdminID: "a1", SessionID: "s1", ExpiresAt: exp})
	require.NoError(t, err)

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "a1", claims.AdminID)
	require.Equal(t, "s1", claims.SessionID)
	require.True(t, exp.Equal(claims.ExpiresAt))
}

func TestParse_RejectsForeignSecretAndExpiry(t *testing.T) {
	issuer, _ := NewJWTIssuer("secret")
	other, _ := NewJWTIssuer("other")

	raw, err := other.Issue(ports.Claims{AdminID: "a1", SessionID: "s1", ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	_, err = issuer.Parse(raw)
	require.ErrorIs(t, err, ErrInvalidToken)

	expired, err := issuer.Issue(ports.Claims{AdminID: "a1", SessionID: "s1", ExpiresAt: time.Now().Add(-time.Minute)})
	require.NoError(t, err)
	_, err = issuer.Parse(expired)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTIssuer_RequiresSecret(t *testing.T) {
	_, err := NewJWTIssuer("")
	require.Error(t, err)
}
