package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Apurer/go-gin-pos-server/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/cart/ports"
)

// Service orchestrates cart use cases.
type Service struct {
	store   ports.Store
	catalog ports.Catalog
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(store ports.Store, catalog ports.Catalog, opts ...Option) *Service {
	s := &Service{store: store, catalog: catalog}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) GetCart(ctx context.Context, registerID string) (*domain.Cart, error) {
	if err := validateRegister(registerID); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, registerID)
}

// AddItem snapshots the current menu item and adds quantity units of it.
func (s *Service) AddItem(ctx context.Context, registerID string, menuItemID int64, quantity int32) (*domain.Cart, error) {
	if err := validateRegister(registerID); err != nil {
		return nil, err
	}
	if s.catalog == nil {
		return nil, errors.New("menu catalog not configured")
	}
	item, err := s.catalog.GetItem(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	line := domain.Line{
		MenuItemID: item.Entity.ID,
		Name:       item.Entity.Name,
		UnitPrice:  item.Entity.Price,
		VATRate:    item.Entity.VATRate,
		Quantity:   quantity,
	}
	cart, err := s.store.Update(ctx, registerID, func(c *domain.Cart) error {
		return c.Add(line)
	})
	if err != nil {
		return nil, mapError(err)
	}
	s.logInfo(ctx, "cart item added", slog.String("register_id", registerID), slog.Int64("menu_item.id", menuItemID), slog.Int("quantity", int(quantity)))
	return cart, nil
}

func (s *Service) SetQuantity(ctx context.Context, registerID string, menuItemID int64, quantity int32) (*domain.Cart, error) {
	if err := validateRegister(registerID); err != nil {
		return nil, err
	}
	cart, err := s.store.Update(ctx, registerID, func(c *domain.Cart) error {
		return c.SetQuantity(menuItemID, quantity)
	})
	return cart, mapError(err)
}

func (s *Service) RemoveItem(ctx context.Context, registerID string, menuItemID int64) (*domain.Cart, error) {
	if err := validateRegister(registerID); err != nil {
		return nil, err
	}
	cart, err := s.store.Update(ctx, registerID, func(c *domain.Cart) error {
		return c.Remove(menuItemID)
	})
	return cart, mapError(err)
}

// Clear empties the cart. It is refused while a payment is in progress.
func (s *Service) Clear(ctx context.Context, registerID string) (*domain.Cart, error) {
	if err := validateRegister(registerID); err != nil {
		return nil, err
	}
	cart, err := s.store.Update(ctx, registerID, func(c *domain.Cart) error {
		return c.Empty()
	})
	return cart, mapError(err)
}

// LockForPayment freezes the cart lines and returns the snapshot being charged.
func (s *Service) LockForPayment(ctx context.Context, registerID string) (*domain.Cart, error) {
	if err := validateRegister(registerID); err != nil {
		return nil, err
	}
	cart, err := s.store.Update(ctx, registerID, func(c *domain.Cart) error {
		return c.Lock()
	})
	if err != nil {
		return nil, mapError(err)
	}
	s.logInfo(ctx, "cart locked for payment", slog.String("register_id", registerID), slog.String("total", cart.Total().String()))
	return cart, nil
}

func (s *Service) Unlock(ctx context.Context, registerID string) (*domain.Cart, error) {
	if err := validateRegister(registerID); err != nil {
		return nil, err
	}
	cart, err := s.store.Update(ctx, registerID, func(c *domain.Cart) error {
		c.Unlock()
		return nil
	})
	return cart, mapError(err)
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func validateRegister(registerID string) error {
	if strings.TrimSpace(registerID) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrEmptyRegisterID)
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
