package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNameRequired    = errors.New("menu name is required")
	ErrItemsRequired   = errors.New("menu needs at least one dish")
	ErrInvalidQuantity = errors.New("menu quantity must be positive")
	ErrDishRequired    = errors.New("menu item needs a dish")
)

// Item is one dish of a saved menu.
type Item struct {
	DishID   string `json:"dishId"`
	Quantity int    `json:"quantity"`
}

// SavedMenu is a reusable selection of dishes, optionally owned by a customer.
type SavedMenu struct {
	ID          string
	Name        string
	Description string
	Items       []Item
	CustomerID  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate trims fields and defaults missing quantities to one.
func (m *SavedMenu) Validate() error {
	m.Name = strings.TrimSpace(m.Name)
	m.Description = strings.TrimSpace(m.Description)
	m.CustomerID = strings.TrimSpace(m.CustomerID)
	if m.Name == "" {
		return ErrNameRequired
	}
	if len(m.Items) == 0 {
		return ErrItemsRequired
	}
	for i := range m.Items {
		item := &m.Items[i]
		item.DishID = strings.TrimSpace(item.DishID)
		if item.DishID == "" {
			return ErrDishRequired
		}
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		if item.Quantity < 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}
