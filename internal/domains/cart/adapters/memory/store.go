package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-gin-pos-server/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/cart/ports"
)

var _ ports.Store = (*Store)(nil)

// Store keeps carts in process memory.
type Store struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func NewStore() *Store {
	return &Store{carts: map[string]*domain.Cart{}}
}

func (s *Store) Get(_ context.Context, registerID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked(registerID)
}

func (s *Store) Update(_ context.Context, registerID string, mutate func(*domain.Cart) error) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.currentLocked(registerID)
	if err != nil {
		return nil, err
	}
	if err := mutate(cart); err != nil {
		return nil, err
	}
	s.carts[cart.RegisterID] = cart.Clone()
	return cart, nil
}

func (s *Store) Delete(_ context.Context, registerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, registerID)
	return nil
}

func (s *Store) currentLocked(registerID string) (*domain.Cart, error) {
	if cart, ok := s.carts[registerID]; ok {
		return cart.Clone(), nil
	}
	return domain.NewCart(registerID)
}
