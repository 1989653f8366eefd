package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/catering-api/internal/domains/admins/domain"
)

var (
	ErrNotFound           = errors.New("admin not found")
	ErrEmailTaken         = errors.New("admin email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("missing or expired session")
)

type Repository interface {
	Create(ctx context.Context, admin *domain.Admin) (*domain.Admin, error)
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

// SessionStore persists issued sessions.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, id string) (domain.Session, error)
	Delete(ctx context.Context, id string) error
	// PurgeExpired removes sessions that expired before now and reports how many.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Claims are the fields carried by an issued token.
type Claims struct {
	AdminID   string
	SessionID string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	Issue(claims Claims) (string, error)
	Parse(token string) (Claims, error)
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Admin     *domain.Admin
}

type Service interface {
	Register(ctx context.Context, email, name, password string) (*domain.Admin, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.Admin, error)
	// EnsureAdmin registers the account unless the email already exists.
	EnsureAdmin(ctx context.Context, email, name, password string) (*domain.Admin, error)
}
