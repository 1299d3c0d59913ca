package ports

import (
	"context"
	"errors"

	cartdomain "github.com/Apurer/go-gin-pos-server/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
)

var (
	ErrNotFound             = errors.New("order not found")
	ErrDuplicateTransaction = errors.New("an order already exists for this transaction")
)

// Repository persists orders. Orders are immutable so there is no update or delete.
type Repository interface {
	// Create stores the order and all of its items in one transaction.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Order, error)
	// List returns orders newest first, with items.
	List(ctx context.Context) ([]*domain.Order, error)
}

// CartStore is the slice of the cart store the finalizer needs.
type CartStore interface {
	Get(ctx context.Context, registerID string) (*cartdomain.Cart, error)
	Update(ctx context.Context, registerID string, mutate func(*cartdomain.Cart) error) (*cartdomain.Cart, error)
}

// EventPublisher announces committed order events.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
