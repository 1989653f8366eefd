package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxItemQuantity caps a single order line.
const MaxItemQuantity = 1000

var (
	ErrNoValidItems     = errors.New("order has no valid items")
	ErrInvalidQuantity  = errors.New("item quantity must be a whole number between 1 and 1000")
	ErrCustomerRequired = errors.New("order requires a customer")
)

// Customer is the view of the ordering customer attached to an order.
type Customer struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
}

// Dish is the catalog entry an order item points at, as currently listed.
type Dish struct {
	ID          string
	Name        string
	NameAr      string
	Image       string
	Price       decimal.Decimal
	IsAvailable bool
}

// Item is one confirmed order line. UnitPrice is frozen at order time.
type Item struct {
	ID        string
	DishID    string
	DishName  string
	Quantity  int
	UnitPrice decimal.Decimal
	Portion   string
	Dish      *Dish
}

// LineTotal is unit price times quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemRequest is an order line as submitted, before the dish is confirmed.
type ItemRequest struct {
	DishID   string
	Quantity int
	// Price is what the client believed the dish cost; only cross-checked.
	Price   *decimal.Decimal
	Portion string
}

// Confirm turns the request into an order line priced from the catalog.
// A zero quantity means "not supplied" and defaults to one.
func (r ItemRequest) Confirm(dish *Dish) (Item, error) {
	quantity := r.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 || quantity > MaxItemQuantity {
		return Item{}, ErrInvalidQuantity
	}
	return Item{
		DishID:    dish.ID,
		DishName:  dish.Name,
		Quantity:  quantity,
		UnitPrice: dish.Price,
		Portion:   strings.TrimSpace(r.Portion),
		Dish:      dish,
	}, nil
}

// Delivery carries the optional delivery details of an order.
type Delivery struct {
	Address string
	Phone   string
	Notes   string
	Date    *time.Time
	Time    string
}

// Order is a customer's set of dish selections moving through the lifecycle.
type Order struct {
	ID          string
	CustomerID  string
	Customer    *Customer
	Items       []Item
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
	Delivery    Delivery
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOrder assembles a pending order. Contact details missing from delivery
// fall back to the customer's stored ones.
func NewOrder(customer *Customer, items []Item, delivery Delivery, fee decimal.Decimal) (*Order, error) {
	if customer == nil || strings.TrimSpace(customer.ID) == "" {
		return nil, ErrCustomerRequired
	}
	if len(items) == 0 {
		return nil, ErrNoValidItems
	}
	delivery.Address = firstNonEmpty(delivery.Address, customer.Address)
	delivery.Phone = firstNonEmpty(delivery.Phone, customer.Phone)
	delivery.Notes = strings.TrimSpace(delivery.Notes)
	delivery.Time = strings.TrimSpace(delivery.Time)

	order := &Order{
		CustomerID:  customer.ID,
		Customer:    customer,
		Items:       items,
		DeliveryFee: fee,
		Delivery:    delivery,
		Status:      StatusPending,
	}
	order.Subtotal = Subtotal(items)
	order.Total = order.Subtotal.Add(fee)
	return order, nil
}

// Subtotal sums the line totals.
func Subtotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// TransitionTo moves the order to next. It reports false without error when
// the order already is in that state.
func (o *Order) TransitionTo(next Status) (bool, error) {
	if !next.Valid() {
		return false, ErrInvalidStatus
	}
	if o.Status == next {
		return false, nil
	}
	if !o.Status.CanTransitionTo(next) {
		return false, &TransitionError{From: o.Status, To: next}
	}
	o.Status = next
	return true, nil
}

// DishIDs lists the distinct dishes on the order, in item order.
func (o *Order) DishIDs() []string {
	seen := make(map[string]struct{}, len(o.Items))
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.DishID]; ok {
			continue
		}
		seen[item.DishID] = struct{}{}
		ids = append(ids, item.DishID)
	}
	return ids
}

// Summary aggregates order figures for the back office dashboard.
type Summary struct {
	TotalOrders   int64
	PendingOrders int64
	// Revenue sums the totals of delivered orders.
	Revenue decimal.Decimal
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
