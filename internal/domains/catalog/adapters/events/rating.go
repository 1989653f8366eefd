// Package events adapts catalog use cases to integration events.
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Apurer/catering-api/internal/domains/catalog/domain"
	"github.com/Apurer/catering-api/internal/domains/catalog/ports"
	"github.com/Apurer/catering-api/internal/shared/events"
)

// RatingAggregator folds moderated review ratings into dish aggregates.
type RatingAggregator struct {
	catalog ports.Service
	logger  *slog.Logger
}

func NewRatingAggregator(catalog ports.Service, logger *slog.Logger) *RatingAggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &RatingAggregator{catalog: catalog, logger: logger}
}

// Handle keeps dish ratings in step with moderated reviews. review.approved
// adds the score to every dish of the reviewed order, or replaces the score an
// earlier approval of the same review counted. review.retracted removes it.
// Dishes deleted since the order was placed are skipped.
func (a *RatingAggregator) Handle(ctx context.Context, event events.Event) error {
	var change domain.RatingChange
	switch event.Type {
	case events.ReviewApproved:
		change = domain.RatingChange{Removed: event.ReplacedRating, Added: event.Rating}
	case events.ReviewRetracted:
		change = domain.RatingChange{Removed: event.Rating}
	default:
		return nil
	}
	if event.Rating < 1 || event.Rating > 5 || change.Validate() != nil {
		a.logger.WarnContext(ctx, "ignoring review event with invalid rating",
			slog.String("event.type", string(event.Type)),
			slog.String("review.id", event.ReviewID),
			slog.Int("review.rating", event.Rating),
			slog.Int("review.replaced_rating", event.ReplacedRating))
		return nil
	}
	var errs []error
	for _, dishID := range event.DishIDs {
		dish, err := a.catalog.AdjustReviewRating(ctx, dishID, change)
		if err != nil {
			if errors.Is(err, ports.ErrDishNotFound) {
				continue
			}
			errs = append(errs, fmt.Errorf("adjust rating of dish %s: %w", dishID, err))
			continue
		}
		a.logger.LogAttrs(ctx, slog.LevelInfo, "dish rating updated",
			slog.String("dish.id", dish.ID),
			slog.Float64("dish.rating", dish.Rating),
			slog.Int("dish.reviews", dish.Reviews),
		)
	}
	return errors.Join(errs...)
}
