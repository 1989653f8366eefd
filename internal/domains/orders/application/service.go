package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/catering-api/internal/domains/orders/application/types"
	"github.com/Apurer/catering-api/internal/domains/orders/domain"
	"github.com/Apurer/catering-api/internal/domains/orders/ports"
	"github.com/Apurer/catering-api/internal/shared/events"
)

// Service orchestrates order placement and the status lifecycle.
type Service struct {
	repo      ports.Repository
	dishes    ports.DishCatalog
	customers ports.CustomerDirectory
	pricing   ports.PricingPolicy
	publisher events.Publisher
	logger    *slog.Logger
}

// Option configures optional collaborators.
type Option func(*Service)

// WithLogger sets the logger used for dropped items and price mismatches.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPublisher sets where integration events go after each write.
func WithPublisher(publisher events.Publisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.publisher = publisher
		}
	}
}

func NewService(repo ports.Repository, dishes ports.DishCatalog, customers ports.CustomerDirectory, pricing ports.PricingPolicy, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		dishes:    dishes,
		customers: customers,
		pricing:   pricing,
		publisher: events.Noop,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder confirms the requested items, resolves the customer, prices the
// order server side and stores it with its items in one write.
func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error) {
	items, err := s.confirmItems(ctx, input.Items)
	if err != nil {
		return nil, mapError(err)
	}
	customer, err := s.resolveCustomer(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}
	subtotal := domain.Subtotal(items)
	fee := decimal.Zero
	if s.pricing != nil {
		if fee, err = s.pricing.DeliveryFee(ctx, subtotal); err != nil {
			return nil, err
		}
	}
	order, err := domain.NewOrder(customer, items, domain.Delivery{
		Address: input.Address,
		Phone:   input.Phone,
		Notes:   input.Notes,
		Date:    input.DeliveryDate,
		Time:    input.DeliveryTime,
	}, fee)
	if err != nil {
		return nil, mapError(err)
	}
	if input.Total != nil && !input.Total.Equal(order.Total) {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "client total differs from computed total",
			slog.String("client_total", input.Total.String()),
			slog.String("computed_total", order.Total.String()),
		)
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:    events.OrderPlaced,
		OrderID: created.ID,
		Status:  string(created.Status),
		DishIDs: created.DishIDs(),
		Total:   created.Total.StringFixed(2),
	})
	return s.expand(ctx, newExpander(), created), nil
}

// confirmItems drops lines whose dish no longer exists and fails when none
// survive.
func (s *Service) confirmItems(ctx context.Context, requests []domain.ItemRequest) ([]domain.Item, error) {
	items := make([]domain.Item, 0, len(requests))
	for _, req := range requests {
		dishID := strings.TrimSpace(req.DishID)
		if dishID == "" {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "dropping order item without dish reference")
			continue
		}
		dish, err := s.dishes.LookupDish(ctx, dishID)
		if err != nil {
			if errors.Is(err, ports.ErrDishNotFound) {
				s.logger.LogAttrs(ctx, slog.LevelWarn, "dropping order item for unknown dish", slog.String("dish_id", dishID))
				continue
			}
			return nil, err
		}
		item, err := req.Confirm(dish)
		if err != nil {
			return nil, err
		}
		if req.Price != nil && !req.Price.Equal(dish.Price) {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "client price differs from catalog price",
				slog.String("dish_id", dishID),
				slog.String("client_price", req.Price.String()),
				slog.String("catalog_price", dish.Price.String()),
			)
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, domain.ErrNoValidItems
	}
	return items, nil
}

func (s *Service) resolveCustomer(ctx context.Context, input types.PlaceOrderInput) (*domain.Customer, error) {
	if id := strings.TrimSpace(input.CustomerID); id != "" {
		return s.customers.LookupCustomer(ctx, id)
	}
	if input.Customer == nil {
		return nil, domain.ErrCustomerRequired
	}
	return s.customers.ResolveCustomer(ctx, *input.Customer)
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ports.ErrNotFound
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, newExpander(), order), nil
}

func (s *Service) ListOrders(ctx context.Context, input types.ListOrdersInput) ([]*domain.Order, error) {
	filter := ports.ListFilter{CustomerID: strings.TrimSpace(input.CustomerID)}
	if raw := strings.TrimSpace(input.Status); raw != "" && !strings.EqualFold(raw, "all") {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return nil, mapError(err)
		}
		filter.Statuses = []domain.Status{status}
	}
	return s.list(ctx, filter)
}

func (s *Service) DeliveryQueue(ctx context.Context) ([]*domain.Order, error) {
	return s.list(ctx, ports.ListFilter{Statuses: []domain.Status{domain.StatusPreparing, domain.StatusDelivering}})
}

func (s *Service) list(ctx context.Context, filter ports.ListFilter) ([]*domain.Order, error) {
	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	cache := newExpander()
	for i, order := range orders {
		orders[i] = s.expand(ctx, cache, order)
	}
	return orders, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status string) (*domain.Order, error) {
	next, err := domain.ParseStatus(status)
	if err != nil {
		return nil, mapError(err)
	}
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, order, next)
}

func (s *Service) AdvanceDelivery(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	next, ok := order.Status.Next()
	if !ok {
		return nil, fmt.Errorf("%w: order is %s", domain.ErrInvalidTransition, order.Status)
	}
	return s.transition(ctx, order, next)
}

func (s *Service) transition(ctx context.Context, order *domain.Order, next domain.Status) (*domain.Order, error) {
	previous := order.Status
	changed, err := order.TransitionTo(next)
	if err != nil {
		return nil, mapError(err)
	}
	if !changed {
		return order, nil
	}
	updated, err := s.repo.UpdateStatus(ctx, order.ID, previous, next)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:       events.OrderStatusChanged,
		OrderID:    updated.ID,
		Status:     string(updated.Status),
		PrevStatus: string(previous),
	})
	return s.expand(ctx, newExpander(), updated), nil
}

func (s *Service) Summary(ctx context.Context) (domain.Summary, error) {
	return s.repo.Summarize(ctx)
}

func (s *Service) OrdersPerCustomer(ctx context.Context) (map[string]int64, error) {
	return s.repo.CountByCustomer(ctx)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	event.OccurredAt = time.Now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to publish order event",
			slog.String("event_type", string(event.Type)),
			slog.String("order_id", event.OrderID),
			slog.String("error", err.Error()),
		)
	}
}

// expander memoises lookups while one response is being built.
type expander struct {
	customers map[string]*domain.Customer
	dishes    map[string]*domain.Dish
}

func newExpander() *expander {
	return &expander{customers: map[string]*domain.Customer{}, dishes: map[string]*domain.Dish{}}
}

// expand attaches the customer and the current catalog view of each dish.
// Lookups that fail leave the reference empty; the order itself is still valid.
func (s *Service) expand(ctx context.Context, cache *expander, order *domain.Order) *domain.Order {
	if order == nil {
		return nil
	}
	if order.Customer == nil && order.CustomerID != "" {
		customer, ok := cache.customers[order.CustomerID]
		if !ok {
			found, err := s.customers.LookupCustomer(ctx, order.CustomerID)
			if err != nil && !errors.Is(err, ports.ErrCustomerNotFound) {
				s.logger.LogAttrs(ctx, slog.LevelWarn, "customer lookup failed", slog.String("customer_id", order.CustomerID), slog.String("error", err.Error()))
			}
			customer = found
			cache.customers[order.CustomerID] = found
		}
		order.Customer = customer
	}
	for i := range order.Items {
		item := &order.Items[i]
		if item.Dish != nil {
			continue
		}
		dish, ok := cache.dishes[item.DishID]
		if !ok {
			found, err := s.dishes.LookupDish(ctx, item.DishID)
			if err != nil && !errors.Is(err, ports.ErrDishNotFound) {
				s.logger.LogAttrs(ctx, slog.LevelWarn, "dish lookup failed", slog.String("dish_id", item.DishID), slog.String("error", err.Error()))
			}
			dish = found
			cache.dishes[item.DishID] = found
		}
		item.Dish = dish
	}
	return order
}

var _ ports.Service = (*Service)(nil)
