package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/catering-api/internal/domains/admins/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid admin input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmailRequired) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrWeakPassword) ||
		errors.Is(err, domain.ErrPasswordLength) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
