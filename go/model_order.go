package cateringserver

import (
	"time"

	openapitypes "github.com/oapi-codegen/runtime/types"

	ordersdomain "github.com/Apurer/catering-api/internal/domains/orders/domain"
)

// OrderCustomer is the customer expanded on an order.
type OrderCustomer struct {
	Id        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// OrderDish is the current catalog view of an ordered dish.
type OrderDish struct {
	Id          string  `json:"id"`
	Name        string  `json:"name"`
	NameAr      string  `json:"nameAr,omitempty"`
	Image       string  `json:"image,omitempty"`
	Price       float64 `json:"price"`
	IsAvailable bool    `json:"isAvailable"`
}

// OrderItem is one line of an order. Price and DishName are frozen at order
// time; Dish is absent once the dish has been deleted.
type OrderItem struct {
	Id       string     `json:"id"`
	DishId   string     `json:"dishId"`
	DishName string     `json:"dishName"`
	Quantity int        `json:"quantity"`
	Price    float64    `json:"price"`
	Portion  string     `json:"portion,omitempty"`
	Dish     *OrderDish `json:"dish,omitempty"`
}

type Order struct {
	Id           string             `json:"id"`
	CustomerId   string             `json:"customerId"`
	Customer     *OrderCustomer     `json:"customer,omitempty"`
	Items        []OrderItem        `json:"items"`
	Subtotal     float64            `json:"subtotal"`
	DeliveryFee  float64            `json:"deliveryFee"`
	Total        float64            `json:"total"`
	Address      string             `json:"address,omitempty"`
	Phone        string             `json:"phone,omitempty"`
	Notes        string             `json:"notes,omitempty"`
	DeliveryDate *openapitypes.Date `json:"deliveryDate,omitempty"`
	DeliveryTime string             `json:"deliveryTime,omitempty"`
	Status       string             `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// UpdateOrderStatusRequest is the body of PATCH /orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func toOrder(order *ordersdomain.Order) Order {
	out := Order{
		Id:           order.ID,
		CustomerId:   order.CustomerID,
		Subtotal:     order.Subtotal.InexactFloat64(),
		DeliveryFee:  order.DeliveryFee.InexactFloat64(),
		Total:        order.Total.InexactFloat64(),
		Address:      order.Delivery.Address,
		Phone:        order.Delivery.Phone,
		Notes:        order.Delivery.Notes,
		DeliveryTime: order.Delivery.Time,
		Status:       string(order.Status),
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
	if order.Delivery.Date != nil {
		out.DeliveryDate = &openapitypes.Date{Time: *order.Delivery.Date}
	}
	if c := order.Customer; c != nil {
		out.Customer = &OrderCustomer{
			Id:        c.ID,
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Email:     c.Email,
			Phone:     c.Phone,
			Address:   c.Address,
		}
	}
	out.Items = make([]OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		line := OrderItem{
			Id:       item.ID,
			DishId:   item.DishID,
			DishName: item.DishName,
			Quantity: item.Quantity,
			Price:    item.UnitPrice.InexactFloat64(),
			Portion:  item.Portion,
		}
		if d := item.Dish; d != nil {
			line.Dish = &OrderDish{
				Id:          d.ID,
				Name:        d.Name,
				NameAr:      d.NameAr,
				Image:       d.Image,
				Price:       d.Price.InexactFloat64(),
				IsAvailable: d.IsAvailable,
			}
		}
		out.Items = append(out.Items, line)
	}
	return out
}

func toOrders(orders []*ordersdomain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrder(order))
	}
	return out
}
