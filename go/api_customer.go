package cateringserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	customersdomain "github.com/Apurer/catering-api/internal/domains/customers/domain"
	customersports "github.com/Apurer/catering-api/internal/domains/customers/ports"
)

type Customer struct {
	Id          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	OrdersCount int64     `json:"ordersCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CustomerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

func toCustomer(customer *customersdomain.Customer, orders int64) Customer {
	return Customer{
		Id:          customer.ID,
		FirstName:   customer.FirstName,
		LastName:    customer.LastName,
		Email:       customer.Email,
		Phone:       customer.Phone,
		Address:     customer.Address,
		OrdersCount: orders,
		CreatedAt:   customer.CreatedAt,
		UpdatedAt:   customer.UpdatedAt,
	}
}

// OrderCounter reports how many orders each customer placed.
type OrderCounter interface {
	OrdersPerCustomer(ctx context.Context) (map[string]int64, error)
}

// CustomerAPI exposes the customer directory to the back office.
type CustomerAPI struct {
	service customersports.Service
	orders  OrderCounter
}

func NewCustomerAPI(service customersports.Service, orders OrderCounter) CustomerAPI {
	return CustomerAPI{service: service, orders: orders}
}

// Get /api/customers
// Customers newest first with their order counts
func (api *CustomerAPI) ListCustomers(c *gin.Context) {
	ctx := c.Request.Context()
	customers, err := api.service.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	counts, err := api.orderCounts(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]Customer, 0, len(customers))
	for _, customer := range customers {
		out = append(out, toCustomer(customer, counts[customer.ID]))
	}
	c.JSON(http.StatusOK, out)
}

// Get /api/customers/:id
func (api *CustomerAPI) GetCustomer(c *gin.Context) {
	ctx := c.Request.Context()
	customer, err := api.service.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	counts, err := api.orderCounts(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomer(customer, counts[customer.ID]))
}

// Post /api/customers
// Register a customer explicitly; emails must be unused
func (api *CustomerAPI) RegisterCustomer(c *gin.Context) {
	var payload CustomerRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "Corps de requête invalide", err)
		return
	}
	customer, err := api.service.Register(c.Request.Context(), customersdomain.Contact{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Address:   payload.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCustomer(customer, 0))
}

func (api *CustomerAPI) orderCounts(ctx context.Context) (map[string]int64, error) {
	if api.orders == nil {
		return map[string]int64{}, nil
	}
	return api.orders.OrdersPerCustomer(ctx)
}
