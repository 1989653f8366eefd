package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/catering-api/internal/domains/menus/domain"
	"github.com/Apurer/catering-api/internal/domains/menus/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory saved menu adapter.
type Repository struct {
	mu    sync.RWMutex
	menus map[string]*domain.SavedMenu
}

func NewRepository() *Repository {
	return &Repository{menus: map[string]*domain.SavedMenu{}}
}

func (r *Repository) Create(_ context.Context, menu *domain.SavedMenu) (*domain.SavedMenu, error) {
	if menu == nil {
		return nil, errors.New("menu is nil")
	}
	clone := cloneMenu(menu)
	now := time.Now().UTC()
	clone.ID = uuid.NewString()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	r.mu.Lock()
	defer r.mu.Unlock()
	r.menus[clone.ID] = clone
	return cloneMenu(clone), nil
}

func (r *Repository) List(_ context.Context, customerID string) ([]*domain.SavedMenu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.SavedMenu, 0, len(r.menus))
	for _, menu := range r.menus {
		if customerID != "" && menu.CustomerID != customerID {
			continue
		}
		list = append(list, cloneMenu(menu))
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.menus[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.menus, id)
	return nil
}

func cloneMenu(menu *domain.SavedMenu) *domain.SavedMenu {
	clone := *menu
	clone.Items = append([]domain.Item(nil), menu.Items...)
	return &clone
}
