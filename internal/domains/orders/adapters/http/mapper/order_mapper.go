// Package mapper converts storefront order payloads into placement commands.
package mapper

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	openapitypes "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"

	"github.com/Apurer/catering-api/internal/domains/orders/application/types"
	"github.com/Apurer/catering-api/internal/domains/orders/domain"
)

// ErrInvalidDeliveryDate is returned when deliveryDate is neither a calendar
// date nor an RFC 3339 timestamp.
var ErrInvalidDeliveryDate = errors.New("delivery date is invalid")

// CustomerPayload is the inline profile a guest submits with an order.
type CustomerPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// ItemPayload is one cart line. Older clients send the dish as "id" and the
// portion as "selectedPortion"; numbers may arrive quoted.
type ItemPayload struct {
	DishID          string          `json:"dishId"`
	ID              string          `json:"id"`
	Quantity        json.RawMessage `json:"quantity"`
	Price           json.RawMessage `json:"price"`
	Portion         string          `json:"portion"`
	SelectedPortion string          `json:"selectedPortion"`
}

// OrderPayload is the body of POST /orders. Any status the client sends is
// ignored.
type OrderPayload struct {
	CustomerID   string           `json:"customerId"`
	Customer     *CustomerPayload `json:"customer"`
	Items        []ItemPayload    `json:"items"`
	Total        json.RawMessage  `json:"total"`
	Address      string           `json:"address"`
	Phone        string           `json:"phone"`
	Notes        string           `json:"notes"`
	DeliveryDate json.RawMessage  `json:"deliveryDate"`
	DeliveryTime string           `json:"deliveryTime"`
}

// ToPlaceOrderInput normalizes the payload. Unparseable prices and totals are
// dropped since the server prices the order itself.
func ToPlaceOrderInput(payload OrderPayload, idempotencyKey string) (types.PlaceOrderInput, error) {
	date, err := ParseDeliveryDate(payload.DeliveryDate)
	if err != nil {
		return types.PlaceOrderInput{}, err
	}
	input := types.PlaceOrderInput{
		CustomerID:     strings.TrimSpace(payload.CustomerID),
		Total:          parseDecimal(payload.Total),
		Address:        payload.Address,
		Phone:          payload.Phone,
		Notes:          payload.Notes,
		DeliveryDate:   date,
		DeliveryTime:   payload.DeliveryTime,
		IdempotencyKey: strings.TrimSpace(idempotencyKey),
	}
	if payload.Customer != nil {
		input.Customer = &types.Contact{
			FirstName: payload.Customer.FirstName,
			LastName:  payload.Customer.LastName,
			Email:     payload.Customer.Email,
			Phone:     payload.Customer.Phone,
			Address:   payload.Customer.Address,
		}
	}
	input.Items = make([]domain.ItemRequest, 0, len(payload.Items))
	for _, item := range payload.Items {
		quantity, err := parseQuantity(item.Quantity)
		if err != nil {
			return types.PlaceOrderInput{}, err
		}
		input.Items = append(input.Items, domain.ItemRequest{
			DishID:   firstNonEmpty(item.DishID, item.ID),
			Quantity: quantity,
			Price:    parseDecimal(item.Price),
			Portion:  firstNonEmpty(item.Portion, item.SelectedPortion),
		})
	}
	return input, nil
}

// ParseDeliveryDate accepts "2006-01-02" or an RFC 3339 timestamp and keeps
// the calendar date only. Null and empty values mean no date.
func ParseDeliveryDate(raw json.RawMessage) (*time.Time, error) {
	if isBlank(raw) {
		return nil, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, ErrInvalidDeliveryDate
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	var date openapitypes.Date
	if err := date.UnmarshalJSON([]byte(strconv.Quote(text))); err == nil {
		t := date.Time.UTC()
		return &t, nil
	}
	ts, err := time.Parse(time.RFC3339, text)
	if err != nil {
		return nil, ErrInvalidDeliveryDate
	}
	t := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	return &t, nil
}

func parseDecimal(raw json.RawMessage) *decimal.Decimal {
	if isBlank(raw) {
		return nil
	}
	var value decimal.Decimal
	if err := value.UnmarshalJSON(raw); err != nil {
		return nil
	}
	return &value
}

var maxQuantity = decimal.NewFromInt(domain.MaxItemQuantity)

// parseQuantity reads a whole number, quoted or not. Blank values return 0,
// which the domain treats as "not supplied".
func parseQuantity(raw json.RawMessage) (int, error) {
	if isBlank(raw) {
		return 0, nil
	}
	text := string(raw)
	var quoted string
	if err := json.Unmarshal(raw, &quoted); err == nil {
		text = quoted
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	value, err := decimal.NewFromString(text)
	if err != nil || !value.IsInteger() || value.IsNegative() || value.GreaterThan(maxQuantity) {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidQuantity, text)
	}
	return int(value.IntPart()), nil
}

func isBlank(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
