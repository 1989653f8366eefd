package orders

import (
	"errors"
	"fmt"

	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/catering-api/internal/domains/orders/application"
	"github.com/Apurer/catering-api/internal/domains/orders/domain"
	"github.com/Apurer/catering-api/internal/domains/orders/ports"
)

// rejections lists the input errors that cross the Temporal boundary by name.
var rejections = map[string]error{
	"orders.NoValidItems":     domain.ErrNoValidItems,
	"orders.InvalidQuantity":  domain.ErrInvalidQuantity,
	"orders.CustomerRequired": domain.ErrCustomerRequired,
	"orders.CustomerNotFound": ports.ErrCustomerNotFound,
	"orders.InvalidContact":   ports.ErrInvalidContact,
}

// EncodeError turns rejected input into a typed non-retryable application
// error; other errors are returned unchanged and retried.
func EncodeError(err error) error {
	if err == nil || !errors.Is(err, application.ErrInvalidInput) {
		return err
	}
	for name, sentinel := range rejections {
		if errors.Is(err, sentinel) {
			return temporal.NewNonRetryableApplicationError(err.Error(), name, nil)
		}
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), "orders.InvalidInput", nil)
}

// DecodeError restores the sentinel chain of an error produced by EncodeError.
func DecodeError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	if sentinel, ok := rejections[appErr.Type()]; ok {
		return fmt.Errorf("%w: %w", application.ErrInvalidInput, sentinel)
	}
	if appErr.Type() == "orders.InvalidInput" {
		return fmt.Errorf("%w: %s", application.ErrInvalidInput, appErr.Error())
	}
	return err
}
