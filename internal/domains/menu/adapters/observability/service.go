package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	menudomain "github.com/Apurer/go-gin-pos-server/internal/domains/menu/domain"
	menuports "github.com/Apurer/go-gin-pos-server/internal/domains/menu/ports"
	"github.com/Apurer/go-gin-pos-server/internal/shared/projection"
)

const tracerName = "github.com/Apurer/go-gin-pos-server/internal/domains/menu/adapters/observability/service"

// Service decorates the menu service with tracing, logging, and metrics.
type Service struct {
	inner   menuports.Service
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

// New wraps the core menu service.
func New(inner menuports.Service, opts ...Option) menuports.Service {
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

func (s *Service) AddItem(ctx context.Context, item *menudomain.MenuItem) (*projection.Projection[*menudomain.MenuItem], error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.AddItem")
	defer span.End()

	s.logInfo(ctx, "adding menu item", slog.String("menu_item.name", itemName(item)))
	result, err := s.inner.AddItem(ctx, item)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add menu item")
	}
	span.SetAttributes(attribute.Int64("menu_item.id", result.Entity.ID), attribute.Int64("menu_item.order_index", result.Entity.OrderIndex))
	s.metrics.recordChange(ctx, "add")
	s.logInfo(ctx, "menu item added", slog.Int64("menu_item.id", result.Entity.ID), slog.Int64("menu_item.order_index", result.Entity.OrderIndex))
	return result, nil
}

func (s *Service) UpdateItem(ctx context.Context, item *menudomain.MenuItem) (*projection.Projection[*menudomain.MenuItem], error) {
	var id int64
	if item != nil {
		id = item.ID
	}
	ctx, span := s.tracer.Start(ctx, "MenuService.UpdateItem", trace.WithAttributes(attribute.Int64("menu_item.id", id)))
	defer span.End()

	result, err := s.inner.UpdateItem(ctx, item)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update menu item", slog.Int64("menu_item.id", id))
	}
	s.metrics.recordChange(ctx, "update")
	s.logInfo(ctx, "menu item updated", slog.Int64("menu_item.id", id))
	return result, nil
}

func (s *Service) DeleteItem(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "MenuService.DeleteItem", trace.WithAttributes(attribute.Int64("menu_item.id", id)))
	defer span.End()

	if err := s.inner.DeleteItem(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete menu item", slog.Int64("menu_item.id", id))
	}
	s.metrics.recordChange(ctx, "delete")
	s.logInfo(ctx, "menu item deleted", slog.Int64("menu_item.id", id))
	return nil
}

func (s *Service) GetItem(ctx context.Context, id int64) (*projection.Projection[*menudomain.MenuItem], error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.GetItem", trace.WithAttributes(attribute.Int64("menu_item.id", id)))
	defer span.End()

	result, err := s.inner.GetItem(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load menu item", slog.Int64("menu_item.id", id))
	}
	return result, nil
}

func (s *Service) ListItems(ctx context.Context) ([]*projection.Projection[*menudomain.MenuItem], error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.ListItems")
	defer span.End()

	result, err := s.inner.ListItems(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list menu items")
	}
	span.SetAttributes(attribute.Int("menu.items.count", len(result)))
	return result, nil
}

func (s *Service) MoveUp(ctx context.Context, id int64) ([]*projection.Projection[*menudomain.MenuItem], error) {
	return s.move(ctx, "MenuService.MoveUp", menuports.Up, id, s.inner.MoveUp)
}

func (s *Service) MoveDown(ctx context.Context, id int64) ([]*projection.Projection[*menudomain.MenuItem], error) {
	return s.move(ctx, "MenuService.MoveDown", menuports.Down, id, s.inner.MoveDown)
}

func (s *Service) move(
	ctx context.Context,
	spanName string,
	direction menuports.Direction,
	id int64,
	fn func(context.Context, int64) ([]*projection.Projection[*menudomain.MenuItem], error),
) ([]*projection.Projection[*menudomain.MenuItem], error) {
	ctx, span := s.tracer.Start(ctx, spanName, trace.WithAttributes(
		attribute.Int64("menu_item.id", id),
		attribute.String("menu.move.direction", direction.String()),
	))
	defer span.End()

	result, err := fn(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to reorder menu item", slog.Int64("menu_item.id", id), slog.String("direction", direction.String()))
	}
	s.metrics.recordChange(ctx, "move_"+direction.String())
	s.logInfo(ctx, "menu item reordered", slog.Int64("menu_item.id", id), slog.String("direction", direction.String()))
	return result, nil
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

func itemName(item *menudomain.MenuItem) string {
	if item == nil {
		return ""
	}
	return item.Name
}

type serviceMetrics struct {
	changes metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	changes, _ := m.Int64Counter("menu.service.changes", metric.WithDescription("Number of menu mutations by kind"))
	return serviceMetrics{changes: changes}
}

func (m serviceMetrics) recordChange(ctx context.Context, kind string) {
	if m.changes != nil {
		m.changes.Add(ctx, 1, metric.WithAttributes(attribute.String("menu.change", kind)))
	}
}

var _ menuports.Service = (*Service)(nil)
