package cateringserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/Apurer/catering-api/internal/domains/orders/adapters/http/mapper"
	orderstypes "github.com/Apurer/catering-api/internal/domains/orders/application/types"
	ordersdomain "github.com/Apurer/catering-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/catering-api/internal/domains/orders/ports"
)

// IdempotencyKeyHeader lets clients retry POST /orders safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// TrackingCodes renders the QR code that links to an order's tracking page.
type TrackingCodes interface {
	PNG(orderID string) ([]byte, error)
}

// OrderAPI wires HTTP transport with the orders service and placement workflows.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
	codes     TrackingCodes
}

// NewOrderAPI creates an OrderAPI. workflows may be nil, in which case orders
// are placed directly through the service.
func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator, codes TrackingCodes) OrderAPI {
	return OrderAPI{service: service, workflows: workflows, codes: codes}
}

// Get /api/orders
// List orders, optionally filtered by customerId and status
func (api *OrderAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context(), orderstypes.ListOrdersInput{
		CustomerID: c.Query("customerId"),
		Status:     c.Query("status"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrders(orders))
}

// Get /api/orders/:id
func (api *OrderAPI) GetOrder(c *gin.Context) {
	order, err := api.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrder(order))
}

// Post /api/orders
// Place an order
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload ordermapper.OrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "Corps de requête invalide", err)
		return
	}
	input, err := ordermapper.ToPlaceOrderInput(payload, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		if errors.Is(err, ordermapper.ErrInvalidDeliveryDate) {
			respondBadRequest(c, "Date de livraison invalide", err)
			return
		}
		if errors.Is(err, ordersdomain.ErrInvalidQuantity) {
			respondBadRequest(c, "Quantité invalide", err)
			return
		}
		respondError(c, err)
		return
	}
	order, err := api.placeOrder(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrder(order))
}

func (api *OrderAPI) placeOrder(ctx context.Context, input orderstypes.PlaceOrderInput) (*ordersdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, input)
	}
	return api.service.PlaceOrder(ctx, input)
}

// Patch /api/orders/:id/status
// Move an order forward in its lifecycle
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	var payload UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "Corps de requête invalide", err)
		return
	}
	order, err := api.service.UpdateStatus(c.Request.Context(), c.Param("id"), payload.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrder(order))
}

// Get /api/orders/:id/qrcode
// PNG QR code pointing at the order tracking page
func (api *OrderAPI) GetOrderQRCode(c *gin.Context) {
	order, err := api.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	png, err := api.codes.PNG(order.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}

// DeliveryAPI serves the delivery crew's console.
type DeliveryAPI struct {
	service ordersports.Service
}

func NewDeliveryAPI(service ordersports.Service) DeliveryAPI {
	return DeliveryAPI{service: service}
}

// Get /api/delivery/orders
// Orders being prepared or out for delivery
func (api *DeliveryAPI) ListDeliveryOrders(c *gin.Context) {
	orders, err := api.service.DeliveryQueue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrders(orders))
}

// Post /api/delivery/orders/:id/advance
// Move an order one delivery step forward
func (api *DeliveryAPI) AdvanceDeliveryOrder(c *gin.Context) {
	order, err := api.service.AdvanceDelivery(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrder(order))
}
