package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	cartdomain "github.com/Apurer/go-gin-pos-server/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
)

var errNotApproved = errors.New("payment response is not approved")

// Service turns approved payments into persisted orders.
type Service struct {
	repo      ports.Repository
	carts     ports.CartStore
	publisher ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithPublisher enables OrderPlaced announcements.
func WithPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, carts ports.CartStore, opts ...Option) *Service {
	s := &Service{repo: repo, carts: carts, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Finalize records the register's cart as an order paid by the given response,
// then resets the cart. The cart is left untouched when persistence fails.
// A second call for the same transaction returns the existing order.
func (s *Service) Finalize(ctx context.Context, input ports.FinalizeInput) (*domain.Order, error) {
	registerID := strings.TrimSpace(input.RegisterID)
	if registerID == "" {
		return nil, fmt.Errorf("%w: register id must not be empty", ErrInvalidInput)
	}
	if !input.Response.Approved() {
		return nil, fmt.Errorf("%w: %w", ErrPreconditionFailed, errNotApproved)
	}
	transactionID := input.Response.TransactionID()
	if strings.TrimSpace(transactionID) == "" {
		return nil, fmt.Errorf("%w: %w", ErrPreconditionFailed, domain.ErrMissingTransactionID)
	}

	existing, err := s.repo.GetByTransactionID(ctx, transactionID)
	switch {
	case err == nil:
		s.logInfo(ctx, "order already recorded for transaction", slog.Int64("order.id", existing.ID), slog.String("transaction_id", transactionID))
		if err := s.resetCart(ctx, registerID); err != nil {
			return nil, err
		}
		return existing, nil
	case !errors.Is(err, ports.ErrNotFound):
		return nil, err
	}

	cart, err := s.carts.Get(ctx, registerID)
	if err != nil {
		return nil, err
	}
	order, err := domain.NewOrder(registerID, input.Currency, input.PaymentMethod, transactionID, orderItems(cart), s.now())
	if err != nil {
		return nil, mapError(err)
	}

	saved, err := s.repo.Create(ctx, order)
	if errors.Is(err, ports.ErrDuplicateTransaction) {
		saved, err = s.repo.GetByTransactionID(ctx, transactionID)
	}
	if err != nil {
		s.logError(ctx, "order persistence failed", err, slog.String("register_id", registerID), slog.String("transaction_id", transactionID))
		return nil, err
	}

	if err := s.resetCart(ctx, registerID); err != nil {
		return nil, err
	}
	s.logInfo(ctx, "order placed",
		slog.Int64("order.id", saved.ID),
		slog.String("register_id", registerID),
		slog.String("total", saved.TotalAmount.String()),
		slog.String("currency", saved.Currency),
		slog.String("payment_method", saved.PaymentMethod))
	s.publish(ctx, domain.NewOrderPlaced(saved))
	return saved, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) resetCart(ctx context.Context, registerID string) error {
	_, err := s.carts.Update(ctx, registerID, func(c *cartdomain.Cart) error {
		c.Reset()
		return nil
	})
	if err != nil {
		s.logError(ctx, "cart reset after order failed", err, slog.String("register_id", registerID))
	}
	return err
}

func (s *Service) publish(ctx context.Context, event domain.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logError(ctx, "order event publish failed", err, slog.String("event", event.EventName()))
	}
}

func orderItems(cart *cartdomain.Cart) []domain.OrderItem {
	if cart == nil {
		return nil
	}
	items := make([]domain.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, domain.OrderItem{
			MenuItemID:      line.MenuItemID,
			Name:            line.Name,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.UnitPrice,
		})
	}
	return items
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
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

var _ ports.Service = (*Service)(nil)
