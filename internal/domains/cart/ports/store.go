package ports

import (
	"context"

	"github.com/Apurer/go-gin-pos-server/internal/domains/cart/domain"
	menudomain "github.com/Apurer/go-gin-pos-server/internal/domains/menu/domain"
	"github.com/Apurer/go-gin-pos-server/internal/shared/projection"
)

// Store keeps one cart per register.
type Store interface {
	// Get returns the register's cart, or an empty cart when none is stored.
	Get(ctx context.Context, registerID string) (*domain.Cart, error)
	// Update applies mutate to the current cart and persists the result atomically.
	// When mutate returns an error nothing is written.
	Update(ctx context.Context, registerID string, mutate func(*domain.Cart) error) (*domain.Cart, error)
	Delete(ctx context.Context, registerID string) error
}

// Catalog resolves menu items added to a cart.
type Catalog interface {
	GetItem(ctx context.Context, id int64) (*projection.Projection[*menudomain.MenuItem], error)
}
