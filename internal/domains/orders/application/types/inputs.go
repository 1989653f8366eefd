package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/catering-api/internal/domains/orders/domain"
)

// Contact is the inline customer profile submitted with an order.
type Contact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
}

// PlaceOrderInput carries an order submission. Exactly one of CustomerID or
// Customer identifies who ordered; CustomerID wins when both are present.
type PlaceOrderInput struct {
	CustomerID string
	Customer   *Contact
	Items      []domain.ItemRequest
	// Total is the client's own figure, used for a sanity cross-check only.
	Total        *decimal.Decimal
	Address      string
	Phone        string
	Notes        string
	DeliveryDate *time.Time
	DeliveryTime string
	// IdempotencyKey deduplicates retried submissions.
	IdempotencyKey string
}

// ListOrdersInput filters the order listing.
type ListOrdersInput struct {
	CustomerID string
	// Status is the raw query value; empty means every status.
	Status string
}
