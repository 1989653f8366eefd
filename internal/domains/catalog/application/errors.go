package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/catering-api/internal/domains/catalog/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid catalog input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrDishNameRequired) ||
		errors.Is(err, domain.ErrDishCategoryRequired) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrInvalidRating) ||
		errors.Is(err, domain.ErrCategoryNameRequired) ||
		errors.Is(err, domain.ErrInvalidSlug) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
