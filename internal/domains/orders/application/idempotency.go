package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/Apurer/catering-api/internal/domains/orders/application/types"
)

type normalizedPlaceOrder struct {
	CustomerID   string           `json:"customerId,omitempty"`
	Customer     *types.Contact   `json:"customer,omitempty"`
	Items        []normalizedItem `json:"items"`
	Total        string           `json:"total,omitempty"`
	Address      string           `json:"address,omitempty"`
	Phone        string           `json:"phone,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	DeliveryDate string           `json:"deliveryDate,omitempty"`
	DeliveryTime string           `json:"deliveryTime,omitempty"`
}

type normalizedItem struct {
	DishID   string `json:"dishId"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price,omitempty"`
	Portion  string `json:"portion,omitempty"`
}

// FingerprintPlaceOrder hashes the order submission, excluding the idempotency key.
func FingerprintPlaceOrder(input types.PlaceOrderInput) (string, error) {
	normalized := normalizedPlaceOrder{
		CustomerID:   strings.TrimSpace(input.CustomerID),
		Address:      strings.TrimSpace(input.Address),
		Phone:        strings.TrimSpace(input.Phone),
		Notes:        strings.TrimSpace(input.Notes),
		DeliveryTime: strings.TrimSpace(input.DeliveryTime),
		Items:        make([]normalizedItem, 0, len(input.Items)),
	}
	if input.Customer != nil {
		contact := *input.Customer
		contact.Email = strings.ToLower(strings.TrimSpace(contact.Email))
		normalized.Customer = &contact
	}
	if input.Total != nil {
		normalized.Total = input.Total.StringFixed(2)
	}
	if input.DeliveryDate != nil {
		normalized.DeliveryDate = input.DeliveryDate.UTC().Format("2006-01-02")
	}
	for _, item := range input.Items {
		n := normalizedItem{DishID: strings.TrimSpace(item.DishID), Quantity: item.Quantity, Portion: strings.TrimSpace(item.Portion)}
		if item.Price != nil {
			n.Price = item.Price.StringFixed(2)
		}
		normalized.Items = append(normalized.Items, n)
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
