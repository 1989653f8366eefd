package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/catering-api/internal/domains/reviews/domain"
	"github.com/Apurer/catering-api/internal/domains/reviews/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory review persistence adapter.
type Repository struct {
	mu      sync.RWMutex
	reviews map[string]*domain.Review
	byOrder map[string]string
}

func NewRepository() *Repository {
	return &Repository{reviews: map[string]*domain.Review{}, byOrder: map[string]string{}}
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *review
	return &clone, nil
}

func (r *Repository) GetByOrderID(_ context.Context, orderID string) (*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byOrder[orderID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *r.reviews[id]
	return &clone, nil
}

func (r *Repository) Upsert(_ context.Context, review *domain.Review) (*domain.Review, bool, error) {
	if review == nil {
		return nil, false, errors.New("review is nil")
	}
	now := time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byOrder[review.OrderID]; ok {
		stored := r.reviews[id]
		stored.CustomerName = review.CustomerName
		stored.CustomerCity = review.CustomerCity
		stored.Rating = review.Rating
		stored.Comment = review.Comment
		stored.IsApproved = false
		stored.UpdatedAt = now
		clone := *stored
		return &clone, false, nil
	}
	clone := *review
	clone.ID = uuid.NewString()
	clone.IsApproved = false
	clone.AppliedRating = 0
	clone.CreatedAt = now
	clone.UpdatedAt = now
	r.reviews[clone.ID] = &clone
	r.byOrder[clone.OrderID] = clone.ID
	out := clone
	return &out, true, nil
}

func (r *Repository) Approve(_ context.Context, id string) (*domain.Approval, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	approval := &domain.Approval{}
	if !review.IsApproved {
		approval.Changed = true
		approval.Replaced = review.AppliedRating
		review.IsApproved = true
		review.AppliedRating = review.Rating
		review.UpdatedAt = time.Now().UTC()
	}
	clone := *review
	approval.Review = &clone
	return approval, nil
}

func (r *Repository) List(_ context.Context, approvedOnly bool) ([]*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Review, 0, len(r.reviews))
	for _, review := range r.reviews {
		if approvedOnly && !review.IsApproved {
			continue
		}
		clone := *review
		list = append(list, &clone)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *Repository) Delete(_ context.Context, id string) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	delete(r.byOrder, review.OrderID)
	delete(r.reviews, id)
	return review, nil
}
