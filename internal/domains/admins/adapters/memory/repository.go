package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/catering-api/internal/domains/admins/domain"
	"github.com/Apurer/catering-api/internal/domains/admins/ports"
)

var (
	_ ports.Repository   = (*Repository)(nil)
	_ ports.SessionStore = (*SessionStore)(nil)
)

// Repository is an in-memory admin account store.
type Repository struct {
	mu      sync.RWMutex
	admins  map[string]domain.Admin
	byEmail map[string]string
}

func NewRepository() *Repository {
	return &Repository{admins: map[string]domain.Admin{}, byEmail: map[string]string{}}
}

func (r *Repository) Create(_ context.Context, admin *domain.Admin) (*domain.Admin, error) {
	if admin == nil {
		return nil, errors.New("admin is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[admin.Email]; taken {
		return nil, ports.ErrEmailTaken
	}
	stored := *admin
	now := time.Now().UTC()
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.admins[stored.ID] = stored
	r.byEmail[stored.Email] = stored.ID
	return &stored, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	admin, ok := r.admins[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &admin, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// SessionStore keeps sessions in a sync.Map keyed by session id.
type SessionStore struct {
	sessions sync.Map
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Save(_ context.Context, session domain.Session) error {
	s.sessions.Store(session.ID, session)
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (domain.Session, error) {
	v, ok := s.sessions.Load(id)
	if !ok {
		return domain.Session{}, ports.ErrNotFound
	}
	return v.(domain.Session), nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.sessions.Delete(id)
	return nil
}

func (s *SessionStore) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	var purged int64
	s.sessions.Range(func(key, value any) bool {
		if value.(domain.Session).Expired(now) {
			s.sessions.Delete(key)
			purged++
		}
		return true
	})
	return purged, nil
}
