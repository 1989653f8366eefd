package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Apurer/catering-api/internal/domains/settings/domain"
	"github.com/Apurer/catering-api/internal/domains/settings/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps the settings record in memory.
type Repository struct {
	mu       sync.RWMutex
	settings *domain.Settings
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) Get(_ context.Context) (*domain.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.settings == nil {
		return nil, ports.ErrNotFound
	}
	clone := *r.settings
	return &clone, nil
}

func (r *Repository) Save(_ context.Context, settings *domain.Settings) (*domain.Settings, error) {
	if settings == nil {
		return nil, errors.New("settings is nil")
	}
	clone := *settings
	clone.ID = domain.SingletonID
	clone.UpdatedAt = time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = &clone
	out := clone
	return &out, nil
}
