package memory

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Apurer/catering-api/internal/domains/orders/domain"
	"github.com/Apurer/catering-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
	now    func() time.Time
}

func NewRepository() *Repository {
	return &Repository{orders: map[string]*domain.Order{}, now: time.Now}
}

// WithClock overrides the timestamp source.
func (r *Repository) WithClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := detach(order)
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now().UTC()
	clone.ID = uuid.NewString()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	for i := range clone.Items {
		clone.Items[i].ID = uuid.NewString()
	}
	r.orders[clone.ID] = clone
	return detach(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return detach(order), nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if filter.CustomerID != "" && order.CustomerID != filter.CustomerID {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, order.Status) {
			continue
		}
		list = append(list, detach(order))
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *Repository) UpdateStatus(_ context.Context, id string, from, to domain.Status) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if order.Status != from {
		return nil, ports.ErrStatusConflict
	}
	order.Status = to
	order.UpdatedAt = r.now().UTC()
	return detach(order), nil
}

func (r *Repository) Summarize(_ context.Context) (domain.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	summary := domain.Summary{Revenue: decimal.Zero}
	for _, order := range r.orders {
		summary.TotalOrders++
		switch order.Status {
		case domain.StatusPending:
			summary.PendingOrders++
		case domain.StatusDelivered:
			summary.Revenue = summary.Revenue.Add(order.Total)
		}
	}
	return summary, nil
}

func (r *Repository) CountByCustomer(_ context.Context) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := map[string]int64{}
	for _, order := range r.orders {
		counts[order.CustomerID]++
	}
	return counts, nil
}

// detach copies the order without the expanded customer and dish views,
// which are never stored.
func detach(order *domain.Order) *domain.Order {
	clone := *order
	clone.Customer = nil
	clone.Items = make([]domain.Item, len(order.Items))
	for i, item := range order.Items {
		item.Dish = nil
		clone.Items[i] = item
	}
	if order.Delivery.Date != nil {
		date := *order.Delivery.Date
		clone.Delivery.Date = &date
	}
	return &clone
}
