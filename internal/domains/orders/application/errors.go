package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/catering-api/internal/domains/orders/domain"
	"github.com/Apurer/catering-api/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNoValidItems) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrCustomerRequired) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, ports.ErrCustomerNotFound) ||
		errors.Is(err, ports.ErrInvalidContact) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
