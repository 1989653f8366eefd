package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/catering-api/internal/domains/catalog/domain"
	"github.com/Apurer/catering-api/internal/domains/catalog/ports"
)

var (
	_ ports.DishRepository     = (*DishRepository)(nil)
	_ ports.CategoryRepository = (*CategoryRepository)(nil)
)

// store holds dishes and categories behind one lock because each side reads
// the other (category expansion, dish counts).
type store struct {
	mu         sync.RWMutex
	dishes     map[string]*domain.Dish
	categories map[string]*domain.Category
}

// DishRepository is an in-memory dish persistence adapter.
type DishRepository struct{ s *store }

// CategoryRepository is an in-memory category persistence adapter.
type CategoryRepository struct{ s *store }

// NewRepositories returns dish and category repositories over shared state.
func NewRepositories() (*DishRepository, *CategoryRepository) {
	s := &store{dishes: map[string]*domain.Dish{}, categories: map[string]*domain.Category{}}
	return &DishRepository{s: s}, &CategoryRepository{s: s}
}

func (r *DishRepository) Save(_ context.Context, dish *domain.Dish) (*domain.Dish, error) {
	if dish == nil {
		return nil, errors.New("dish is nil")
	}
	clone := cloneDish(dish)
	clone.Category = nil
	now := time.Now().UTC()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	if existing, ok := r.s.dishes[clone.ID]; ok {
		clone.CreatedAt = existing.CreatedAt
	} else if clone.CreatedAt.IsZero() {
		clone.CreatedAt = now
	}
	clone.UpdatedAt = now
	r.s.dishes[clone.ID] = clone
	return r.s.expandLocked(clone), nil
}

func (r *DishRepository) GetByID(_ context.Context, id string) (*domain.Dish, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	dish, ok := r.s.dishes[id]
	if !ok {
		return nil, ports.ErrDishNotFound
	}
	return r.s.expandLocked(dish), nil
}

func (r *DishRepository) List(_ context.Context, filter domain.DishFilter) ([]*domain.Dish, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*domain.Dish, 0, len(r.s.dishes))
	for _, dish := range r.s.dishes {
		if filter.CategorySlug != "" {
			category, ok := r.s.categories[dish.CategoryID]
			if !ok || category.Slug != filter.CategorySlug {
				continue
			}
		}
		if !filter.MatchesSearch(dish) {
			continue
		}
		list = append(list, r.s.expandLocked(dish))
	}
	sortDishes(list, filter.Sort)
	return list, nil
}

func sortDishes(list []*domain.Dish, order domain.SortOrder) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch order {
		case domain.SortPriceLow:
			return a.Price.LessThan(b.Price)
		case domain.SortPriceHigh:
			return a.Price.GreaterThan(b.Price)
		case domain.SortRating:
			return a.Rating > b.Rating
		default:
			if a.Reviews != b.Reviews {
				return a.Reviews > b.Reviews
			}
			return a.Name < b.Name
		}
	})
}

func (r *DishRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.dishes[id]; !ok {
		return ports.ErrDishNotFound
	}
	delete(r.s.dishes, id)
	return nil
}

func (r *DishRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.dishes)), nil
}

func (r *DishRepository) CountByCategory(_ context.Context, categoryID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.countByCategoryLocked(categoryID), nil
}

func (r *DishRepository) AdjustRating(_ context.Context, id string, change domain.RatingChange) (*domain.Dish, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	dish, ok := r.s.dishes[id]
	if !ok {
		return nil, ports.ErrDishNotFound
	}
	if err := dish.AdjustRating(change); err != nil {
		return nil, err
	}
	dish.UpdatedAt = time.Now().UTC()
	return r.s.expandLocked(dish), nil
}

func (r *CategoryRepository) Save(_ context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, errors.New("category is nil")
	}
	clone := *category
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.categories {
		if existing.Slug == clone.Slug && id != clone.ID {
			return nil, ports.ErrDuplicateSlug
		}
	}
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	clone.DishCount = 0
	r.s.categories[clone.ID] = &clone
	out := clone
	out.DishCount = r.s.countByCategoryLocked(clone.ID)
	return &out, nil
}

func (r *CategoryRepository) GetByID(_ context.Context, id string) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	category, ok := r.s.categories[id]
	if !ok {
		return nil, ports.ErrCategoryNotFound
	}
	clone := *category
	clone.DishCount = r.s.countByCategoryLocked(id)
	return &clone, nil
}

func (r *CategoryRepository) List(_ context.Context) ([]*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*domain.Category, 0, len(r.s.categories))
	for id, category := range r.s.categories {
		clone := *category
		clone.DishCount = r.s.countByCategoryLocked(id)
		list = append(list, &clone)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *CategoryRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return ports.ErrCategoryNotFound
	}
	if r.s.countByCategoryLocked(id) > 0 {
		return ports.ErrCategoryInUse
	}
	delete(r.s.categories, id)
	return nil
}

func (s *store) countByCategoryLocked(categoryID string) int64 {
	var n int64
	for _, dish := range s.dishes {
		if dish.CategoryID == categoryID {
			n++
		}
	}
	return n
}

func (s *store) expandLocked(dish *domain.Dish) *domain.Dish {
	clone := cloneDish(dish)
	if category, ok := s.categories[dish.CategoryID]; ok {
		c := *category
		clone.Category = &c
	}
	return clone
}

func cloneDish(dish *domain.Dish) *domain.Dish {
	clone := *dish
	clone.Portions = append([]string(nil), dish.Portions...)
	return &clone
}
