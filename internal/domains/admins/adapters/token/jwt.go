// Package token issues HS256 bearer tokens for admin sessions.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Apurer/catering-api/internal/domains/admins/ports"
)

const issuer = "catering-api"

var ErrInvalidToken = errors.New("invalid or expired token")

type JWTIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewJWTIssuer(secret string) (*JWTIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTIssuer{secret: []byte(secret), now: time.Now}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

func (i *JWTIssuer) Issue(c ports.Claims) (string, error) {
	now := i.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        c.SessionID,
			Subject:   c.AdminID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(c.ExpiresAt),
		},
	})
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (i *JWTIssuer) Parse(raw string) (ports.Claims, error) {
	var parsed claims
	tok, err := jwt.ParseWithClaims(raw, &parsed, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !tok.Valid {
		return ports.Claims{}, ErrInvalidToken
	}
	if parsed.ID == "" || parsed.Subject == "" {
		return ports.Claims{}, ErrInvalidToken
	}
	return ports.Claims{AdminID: parsed.Subject, SessionID: parsed.ID, ExpiresAt: parsed.ExpiresAt.Time}, nil
}

var _ ports.TokenIssuer = (*JWTIssuer)(nil)
