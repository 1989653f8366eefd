package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/catering-api/internal/domains/messages/domain"
	"github.com/Apurer/catering-api/internal/domains/messages/ports"
)

var _ ports.Repository = (*Repository)(nil)

type Repository struct {
	mu       sync.RWMutex
	messages map[string]domain.Message
	now      func() time.Time
}

func NewRepository() *Repository {
	return &Repository{messages: map[string]domain.Message{}, now: time.Now}
}

// WithClock overrides the timestamp source.
func (r *Repository) WithClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Create(_ context.Context, msg *domain.Message) (*domain.Message, error) {
	if msg == nil {
		return nil, errors.New("message is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *msg
	stored.ID = uuid.NewString()
	stored.CreatedAt = r.now().UTC()
	r.messages[stored.ID] = stored
	return &stored, nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Message, 0, len(r.messages))
	for _, msg := range r.messages {
		m := msg
		list = append(list, &m)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *Repository) MarkRead(_ context.Context, id string) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	msg.IsRead = true
	r.messages[id] = msg
	return &msg, nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.messages[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.messages, id)
	return nil
}
