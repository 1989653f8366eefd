package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/catering-api/internal/domains/orders/application"
	"github.com/Apurer/catering-api/internal/domains/orders/application/types"
	"github.com/Apurer/catering-api/internal/domains/orders/domain"
	"github.com/Apurer/catering-api/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/catering-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.Default(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.PlaceOrder",
		trace.WithAttributes(attribute.Int("order.requested_items", len(input.Items)), attribute.Bool("order.customer_ref", input.CustomerID != "")))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Int("order.requested_items", len(input.Items)))
	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order")
	}
	span.SetAttributes(attribute.String("order.id", result.ID), attribute.Int("order.items", len(result.Items)))
	s.metrics.recordPlaced(ctx, len(result.Items), len(input.Items))
	s.logInfo(ctx, "order placed",
		slog.String("order.id", result.ID),
		slog.String("order.customer_id", result.CustomerID),
		slog.String("order.total", result.Total.StringFixed(2)),
		slog.Int("order.items", len(result.Items)),
	)
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.GetOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id))
	}
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, input types.ListOrdersInput) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListOrders",
		trace.WithAttributes(attribute.String("order.filter.status", input.Status), attribute.Bool("order.filter.customer", input.CustomerID != "")))
	defer span.End()

	result, err := s.inner.ListOrders(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.UpdateStatus",
		trace.WithAttributes(attribute.String("order.id", id), attribute.String("order.requested_status", status)))
	defer span.End()

	s.logInfo(ctx, "updating order status", slog.String("order.id", id), slog.String("status", status))
	result, err := s.inner.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.String("order.id", id))
	}
	s.metrics.recordStatus(ctx, result.Status, "admin")
	return result, nil
}

func (s *Service) DeliveryQueue(ctx context.Context) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.DeliveryQueue")
	defer span.End()

	result, err := s.inner.DeliveryQueue(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list delivery queue")
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) AdvanceDelivery(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.AdvanceDelivery", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	result, err := s.inner.AdvanceDelivery(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to advance delivery", slog.String("order.id", id))
	}
	s.metrics.recordStatus(ctx, result.Status, "delivery")
	s.logInfo(ctx, "delivery advanced", slog.String("order.id", id), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) Summary(ctx context.Context) (domain.Summary, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Summary")
	defer span.End()

	result, err := s.inner.Summary(ctx)
	if err != nil {
		return domain.Summary{}, s.handleError(ctx, span, err, "failed to summarize orders")
	}
	return result, nil
}

func (s *Service) OrdersPerCustomer(ctx context.Context) (map[string]int64, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.OrdersPerCustomer")
	defer span.End()

	result, err := s.inner.OrdersPerCustomer(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to count orders per customer")
	}
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// handleError records failures on the span. Rejected input is logged at
// WARN; everything else is an error.
func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger == nil {
		return err
	}
	level := slog.LevelError
	if errors.Is(err, application.ErrInvalidInput) || errors.Is(err, ports.ErrNotFound) ||
		errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, ports.ErrStatusConflict) {
		level = slog.LevelWarn
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, level, msg, attrs...)
	return err
}

type serviceMetrics struct {
	ordersPlaced  metric.Int64Counter
	itemsDropped  metric.Int64Counter
	statusChanges metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	itemsDropped, _ := m.Int64Counter("orders.service.items_dropped", metric.WithDescription("Order items dropped because their dish no longer exists"))
	statusChanges, _ := m.Int64Counter("orders.service.status_changes", metric.WithDescription("Number of order status updates"))
	return serviceMetrics{ordersPlaced: ordersPlaced, itemsDropped: itemsDropped, statusChanges: statusChanges}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, kept, requested int) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
	if m.itemsDropped != nil && requested > kept {
		m.itemsDropped.Add(ctx, int64(requested-kept))
	}
}

func (m serviceMetrics) recordStatus(ctx context.Context, status domain.Status, source string) {
	if m.statusChanges != nil {
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(
			attribute.String("order.status", string(status)),
			attribute.String("order.status_source", source),
		))
	}
}

var _ ports.Service = (*Service)(nil)
