package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-pos-server/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/payments/ports"
)

const tracerName = "github.com/Apurer/go-gin-pos-server/internal/domains/payments/adapters/observability/service"

// Service decorates the payment service with tracing, logging, and metrics.
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

func New(inner ports.Service, opts ...Option) ports.Service {
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

func (s *Service) State(ctx context.Context, registerID string) (domain.Snapshot, error) {
	ctx, span := s.start(ctx, "PaymentService.State", registerID)
	defer span.End()

	snapshot, err := s.inner.State(ctx, registerID)
	if err != nil {
		return snapshot, s.handleError(ctx, span, err, "failed to read payment state", slog.String("register.id", registerID))
	}
	span.SetAttributes(attribute.String("payment.stage", string(snapshot.Stage)))
	return snapshot, nil
}

func (s *Service) RefreshDevices(ctx context.Context, registerID string) (domain.Snapshot, error) {
	return s.transition(ctx, "PaymentService.RefreshDevices", registerID, "failed to refresh devices", s.inner.RefreshDevices)
}

func (s *Service) SelectDevice(ctx context.Context, registerID, deviceID string) (domain.Snapshot, error) {
	ctx, span := s.start(ctx, "PaymentService.SelectDevice", registerID)
	defer span.End()
	span.SetAttributes(attribute.String("payment.device_id", deviceID))

	snapshot, err := s.inner.SelectDevice(ctx, registerID, deviceID)
	if err != nil {
		return snapshot, s.handleError(ctx, span, err, "failed to select device", slog.String("register.id", registerID), slog.String("device.id", deviceID))
	}
	return snapshot, nil
}

func (s *Service) StartPayment(ctx context.Context, registerID string) (domain.Snapshot, error) {
	ctx, span := s.start(ctx, "PaymentService.StartPayment", registerID)
	defer span.End()

	snapshot, err := s.inner.StartPayment(ctx, registerID)
	if err != nil {
		return snapshot, s.handleError(ctx, span, err, "failed to start payment", slog.String("register.id", registerID))
	}
	span.SetAttributes(
		attribute.String("payment.service_id", snapshot.ServiceID),
		attribute.String("payment.device_id", snapshot.SelectedDevice),
		attribute.String("payment.currency", snapshot.Currency),
	)
	s.metrics.recordStarted(ctx, "terminal")
	return snapshot, nil
}

func (s *Service) Abort(ctx context.Context, registerID string) (domain.Snapshot, error) {
	return s.transition(ctx, "PaymentService.Abort", registerID, "failed to abort payment", s.inner.Abort)
}

func (s *Service) Cancel(ctx context.Context, registerID string) (domain.Snapshot, error) {
	return s.transition(ctx, "PaymentService.Cancel", registerID, "failed to cancel payment", s.inner.Cancel)
}

func (s *Service) Dismiss(ctx context.Context, registerID string) (*ports.DismissResult, error) {
	ctx, span := s.start(ctx, "PaymentService.Dismiss", registerID)
	defer span.End()

	result, err := s.inner.Dismiss(ctx, registerID)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to dismiss payment result", slog.String("register.id", registerID))
	}
	s.recordOutcome(ctx, span, "terminal", result.Outcome)
	return result, nil
}

func (s *Service) CheckoutSDK(ctx context.Context, registerID string, sdkResult domain.SDKResult) (*ports.CheckoutResult, error) {
	ctx, span := s.start(ctx, "PaymentService.CheckoutSDK", registerID)
	defer span.End()
	span.SetAttributes(attribute.String("payment.sdk.kind", string(sdkResult.Kind)))

	result, err := s.inner.CheckoutSDK(ctx, registerID, sdkResult)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to check out sdk result", slog.String("register.id", registerID), slog.String("sdk.kind", string(sdkResult.Kind)))
	}
	s.recordOutcome(ctx, span, "sdk", result.Outcome)
	return result, nil
}

func (s *Service) AuthenticateSDK(ctx context.Context, setupToken string) (*domain.SDKSession, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.AuthenticateSDK")
	defer span.End()

	session, err := s.inner.AuthenticateSDK(ctx, setupToken)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to authenticate sdk")
	}
	return session, nil
}

func (s *Service) transition(
	ctx context.Context,
	spanName, registerID, failure string,
	fn func(context.Context, string) (domain.Snapshot, error),
) (domain.Snapshot, error) {
	ctx, span := s.start(ctx, spanName, registerID)
	defer span.End()

	snapshot, err := fn(ctx, registerID)
	if err != nil {
		return snapshot, s.handleError(ctx, span, err, failure, slog.String("register.id", registerID))
	}
	span.SetAttributes(attribute.String("payment.stage", string(snapshot.Stage)))
	return snapshot, nil
}

func (s *Service) start(ctx context.Context, spanName, registerID string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, spanName, trace.WithAttributes(attribute.String("register.id", registerID)))
}

func (s *Service) recordOutcome(ctx context.Context, span trace.Span, channel string, outcome domain.Outcome) {
	span.SetAttributes(
		attribute.String("payment.outcome", string(outcome.Kind)),
		attribute.String("payment.transaction_id", outcome.TransactionID),
	)
	s.metrics.recordOutcome(ctx, channel, outcome.Kind)
	s.logInfo(ctx, "payment outcome recorded",
		slog.String("channel", channel),
		slog.String("outcome", string(outcome.Kind)),
		slog.String("transaction_id", outcome.TransactionID))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	started  metric.Int64Counter
	outcomes metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	started, _ := m.Int64Counter("payments.started", metric.WithDescription("Number of device payments sent to a terminal"))
	outcomes, _ := m.Int64Counter("payments.outcomes", metric.WithDescription("Number of finished payments by channel and outcome"))
	return serviceMetrics{started: started, outcomes: outcomes}
}

func (m serviceMetrics) recordStarted(ctx context.Context, channel string) {
	if m.started != nil {
		m.started.Add(ctx, 1, metric.WithAttributes(attribute.String("payment.channel", channel)))
	}
}

func (m serviceMetrics) recordOutcome(ctx context.Context, channel string, kind domain.OutcomeKind) {
	if m.outcomes != nil {
		m.outcomes.Add(ctx, 1, metric.WithAttributes(
			attribute.String("payment.channel", channel),
			attribute.String("payment.outcome", string(kind)),
		))
	}
}

var _ ports.Service = (*Service)(nil)
