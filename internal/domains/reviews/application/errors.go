package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/catering-api/internal/domains/reviews/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid review input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrOrderRequired) ||
		errors.Is(err, domain.ErrRatingRequired) ||
		errors.Is(err, domain.ErrInvalidRating) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
