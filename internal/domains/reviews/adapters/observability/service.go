package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/catering-api/internal/domains/reviews/domain"
	"github.com/Apurer/catering-api/internal/domains/reviews/ports"
)

const tracerName = "github.com/Apurer/catering-api/internal/domains/reviews/adapters/observability/service"

// Service decorates the reviews service with tracing, logging, and metrics.
type Service struct {
	inner     ports.Service
	tracer    trace.Tracer
	logger    *slog.Logger
	submitted metric.Int64Counter
	approved  metric.Int64Counter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		if m == nil {
			return
		}
		s.submitted, _ = m.Int64Counter("reviews.service.submitted", metric.WithDescription("Reviews created or replaced"))
		s.approved, _ = m.Int64Counter("reviews.service.approved", metric.WithDescription("Reviews approved"))
	}
}

// New wraps the core reviews service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{inner: inner, tracer: nooptrace.NewTracerProvider().Tracer(tracerName), logger: slog.Default()}
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

func (s *Service) Submit(ctx context.Context, submission domain.Submission) (*domain.Review, bool, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewsService.Submit", trace.WithAttributes(attribute.String("review.order_id", submission.OrderID)))
	defer span.End()

	review, created, err := s.inner.Submit(ctx, submission)
	if err != nil {
		return nil, false, s.handleError(ctx, span, err, "failed to submit review", slog.String("review.order_id", submission.OrderID))
	}
	if s.submitted != nil {
		s.submitted.Add(ctx, 1, metric.WithAttributes(attribute.Bool("review.created", created)))
	}
	s.log(ctx, slog.LevelInfo, "review submitted",
		slog.String("review.id", review.ID), slog.String("review.order_id", review.OrderID), slog.Bool("review.created", created))
	return review, created, nil
}

func (s *Service) Approve(ctx context.Context, id string) (*domain.Review, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewsService.Approve", trace.WithAttributes(attribute.String("review.id", id)))
	defer span.End()

	review, err := s.inner.Approve(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to approve review", slog.String("review.id", id))
	}
	if s.approved != nil {
		s.approved.Add(ctx, 1)
	}
	s.log(ctx, slog.LevelInfo, "review approved", slog.String("review.id", id))
	return review, nil
}

func (s *Service) ListApproved(ctx context.Context) ([]*domain.Review, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewsService.ListApproved")
	defer span.End()

	reviews, err := s.inner.ListApproved(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list approved reviews")
	}
	return reviews, nil
}

func (s *Service) ListAll(ctx context.Context) ([]*domain.Review, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewsService.ListAll")
	defer span.End()

	reviews, err := s.inner.ListAll(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list reviews")
	}
	return reviews, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "ReviewsService.Delete", trace.WithAttributes(attribute.String("review.id", id)))
	defer span.End()

	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete review", slog.String("review.id", id))
	}
	s.log(ctx, slog.LevelInfo, "review deleted", slog.String("review.id", id))
	return nil
}

func (s *Service) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.log(ctx, slog.LevelError, msg, append(attrs, slog.String("error", err.Error()))...)
	return err
}

var _ ports.Service = (*Service)(nil)
