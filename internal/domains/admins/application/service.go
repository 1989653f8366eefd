package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/catering-api/internal/domains/admins/domain"
	"github.com/Apurer/catering-api/internal/domains/admins/ports"
)

const DefaultSessionTTL = 24 * time.Hour

// Service implements admin registration and session handling.
type Service struct {
	repo     ports.Repository
	sessions ports.SessionStore
	tokens   ports.TokenIssuer
	logger   *slog.Logger
	ttl      time.Duration
	cost     int
	now      func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithHashCost sets the bcrypt cost used for new accounts.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, sessions ports.SessionStore, tokens ports.TokenIssuer, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		sessions: sessions,
		tokens:   tokens,
		logger:   slog.Default(),
		ttl:      DefaultSessionTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) Register(ctx context.Context, email, name, password string) (*domain.Admin, error) {
	admin, err := domain.NewAdmin(email, name, password, s.cost)
	if err != nil {
		return nil, mapError(err)
	}
	created, err := s.repo.Create(ctx, admin)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "admin registered", slog.String("admin.id", created.ID))
	return created, nil
}

func (s *Service) EnsureAdmin(ctx context.Context, email, name, password string) (*domain.Admin, error) {
	existing, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	return s.Register(ctx, email, name, password)
}

func (s *Service) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, ports.ErrInvalidCredentials
	}
	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ports.ErrInvalidCredentials
		}
		return nil, err
	}
	if !admin.CheckPassword(password) {
		s.logger.WarnContext(ctx, "admin login rejected", slog.String("admin.id", admin.ID))
		return nil, ports.ErrInvalidCredentials
	}
	now := s.now().UTC()
	session := domain.Session{
		ID:        uuid.NewString(),
		AdminID:   admin.ID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	token, err := s.tokens.Issue(ports.Claims{AdminID: admin.ID, SessionID: session.ID, ExpiresAt: session.ExpiresAt})
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return &ports.LoginResult{Token: token, ExpiresAt: session.ExpiresAt, Admin: admin}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return ports.ErrUnauthenticated
	}
	if err := s.sessions.Delete(ctx, claims.SessionID); err != nil && !errors.Is(err, ports.ErrNotFound) {
		return err
	}
	return nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Admin, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ports.ErrUnauthenticated
	}
	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ports.ErrUnauthenticated
		}
		return nil, err
	}
	if session.AdminID != claims.AdminID || session.Expired(s.now()) {
		return nil, ports.ErrUnauthenticated
	}
	admin, err := s.repo.GetByID(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ports.ErrUnauthenticated
		}
		return nil, err
	}
	return admin, nil
}

var _ ports.Service = (*Service)(nil)
