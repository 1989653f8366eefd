package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Apurer/catering-api/internal/domains/reviews/domain"
	"github.com/Apurer/catering-api/internal/domains/reviews/ports"
	"github.com/Apurer/catering-api/internal/shared/events"
)

// Service orchestrates review submission and moderation.
type Service struct {
	repo      ports.Repository
	orders    ports.OrderLookup
	publisher events.Publisher
	logger    *slog.Logger
}

type Option func(*Service)

func WithPublisher(publisher events.Publisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.publisher = publisher
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(repo ports.Repository, orders ports.OrderLookup, opts ...Option) *Service {
	s := &Service{repo: repo, orders: orders, publisher: events.Noop, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit upserts the review of an order. Edits reset the approval flag.
func (s *Service) Submit(ctx context.Context, submission domain.Submission) (*domain.Review, bool, error) {
	if err := submission.Validate(); err != nil {
		return nil, false, mapError(err)
	}
	if _, err := s.orders.OrderDishes(ctx, submission.OrderID); err != nil {
		return nil, false, err
	}
	review, created, err := s.repo.Upsert(ctx, domain.NewReview(submission))
	if err != nil {
		return nil, false, err
	}
	s.publish(ctx, events.Event{
		Type:     events.ReviewSubmitted,
		OrderID:  review.OrderID,
		ReviewID: review.ID,
		Rating:   review.Rating,
	})
	return review, created, nil
}

// Approve publishes the review. Approving twice only counts once toward
// dish ratings, and approving an edit replaces the score the previous
// approval counted.
func (s *Service) Approve(ctx context.Context, id string) (*domain.Review, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ports.ErrNotFound
	}
	approval, err := s.repo.Approve(ctx, id)
	if err != nil {
		return nil, err
	}
	review := approval.Review
	if !approval.Changed {
		return review, nil
	}
	s.publish(ctx, events.Event{
		Type:           events.ReviewApproved,
		OrderID:        review.OrderID,
		ReviewID:       review.ID,
		Rating:         review.AppliedRating,
		ReplacedRating: approval.Replaced,
		DishIDs:        s.orderDishes(ctx, review),
	})
	return review, nil
}

func (s *Service) ListApproved(ctx context.Context) ([]*domain.Review, error) {
	return s.repo.List(ctx, true)
}

func (s *Service) ListAll(ctx context.Context) ([]*domain.Review, error) {
	return s.repo.List(ctx, false)
}

// Delete removes the review and withdraws the score it counted in dish
// ratings, if any.
func (s *Service) Delete(ctx context.Context, id string) error {
	review, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if review.AppliedRating == 0 {
		return nil
	}
	s.publish(ctx, events.Event{
		Type:     events.ReviewRetracted,
		OrderID:  review.OrderID,
		ReviewID: review.ID,
		Rating:   review.AppliedRating,
		DishIDs:  s.orderDishes(ctx, review),
	})
	return nil
}

func (s *Service) orderDishes(ctx context.Context, review *domain.Review) []string {
	dishIDs, err := s.orders.OrderDishes(ctx, review.OrderID)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "reviewed order has no dishes",
			slog.String("review_id", review.ID), slog.String("order_id", review.OrderID), slog.String("error", err.Error()))
		return nil
	}
	return dishIDs
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	event.OccurredAt = time.Now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to publish review event",
			slog.String("event_type", string(event.Type)),
			slog.String("review_id", event.ReviewID),
			slog.String("error", err.Error()),
		)
	}
}

var _ ports.Service = (*Service)(nil)
