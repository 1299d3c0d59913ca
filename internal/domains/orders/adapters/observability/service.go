package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersdomain "github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-gin-pos-server/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
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

func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
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

func (s *Service) Finalize(ctx context.Context, input ordersports.FinalizeInput) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Finalize", trace.WithAttributes(
		attribute.String("register.id", input.RegisterID),
		attribute.String("order.payment_method", input.PaymentMethod),
	))
	defer span.End()

	order, err := s.inner.Finalize(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to finalize order", slog.String("register_id", input.RegisterID))
	}
	span.SetAttributes(
		attribute.Int64("order.id", order.ID),
		attribute.String("order.total", order.TotalAmount.String()),
		attribute.String("order.currency", order.Currency),
	)
	s.metrics.recordPlaced(ctx, order)
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders")
	defer span.End()

	orders, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return orders, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	placed metric.Int64Counter
	items  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.placed", metric.WithDescription("Orders recorded after approved payments"))
	items, _ := m.Int64Counter("orders.items.sold", metric.WithDescription("Units sold across placed orders"))
	return serviceMetrics{placed: placed, items: items}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, order *ordersdomain.Order) {
	attrs := metric.WithAttributes(attribute.String("order.payment_method", order.PaymentMethod))
	if m.placed != nil {
		m.placed.Add(ctx, 1, attrs)
	}
	if m.items != nil {
		m.items.Add(ctx, int64(order.ItemCount()), attrs)
	}
}

var _ ordersports.Service = (*Service)(nil)
