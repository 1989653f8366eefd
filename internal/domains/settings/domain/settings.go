package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SingletonID is the fixed key of the one settings record.
const SingletonID = "main"

var ErrNegativeAmount = errors.New("delivery amounts must not be negative")

// Settings holds restaurant metadata and the delivery fee rule.
type Settings struct {
	ID                    string
	RestaurantName        string
	Phone                 string
	Email                 string
	Address               string
	OpeningHours          string
	WhatsappNumber        string
	DeliveryFee           decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal
	UpdatedAt             time.Time
}

// Defaults is what a fresh installation starts with: no delivery fee.
func Defaults() *Settings {
	return &Settings{
		ID:                    SingletonID,
		RestaurantName:        "Traiteur",
		DeliveryFee:           decimal.Zero,
		FreeDeliveryThreshold: decimal.Zero,
	}
}

// DeliveryFeeFor applies the flat fee unless a positive threshold is
// configured and the subtotal reaches it.
func (s *Settings) DeliveryFeeFor(subtotal decimal.Decimal) decimal.Decimal {
	if s.FreeDeliveryThreshold.IsPositive() && subtotal.GreaterThanOrEqual(s.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return s.DeliveryFee
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	RestaurantName        *string
	Phone                 *string
	Email                 *string
	Address               *string
	OpeningHours          *string
	WhatsappNumber        *string
	DeliveryFee           *decimal.Decimal
	FreeDeliveryThreshold *decimal.Decimal
}

// Apply copies the supplied fields and validates the amounts.
func (s *Settings) Apply(p Patch) error {
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	assign(&s.RestaurantName, p.RestaurantName)
	assign(&s.Phone, p.Phone)
	assign(&s.Email, p.Email)
	assign(&s.Address, p.Address)
	assign(&s.OpeningHours, p.OpeningHours)
	assign(&s.WhatsappNumber, p.WhatsappNumber)
	if p.DeliveryFee != nil {
		s.DeliveryFee = *p.DeliveryFee
	}
	if p.FreeDeliveryThreshold != nil {
		s.FreeDeliveryThreshold = *p.FreeDeliveryThreshold
	}
	if s.DeliveryFee.IsNegative() || s.FreeDeliveryThreshold.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}
