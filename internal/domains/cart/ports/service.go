package ports

import (
	"context"

	"github.com/Apurer/go-gin-pos-server/internal/domains/cart/domain"
)

// Service exposes cart use cases to adapters.
type Service interface {
	GetCart(ctx context.Context, registerID string) (*domain.Cart, error)
	AddItem(ctx context.Context, registerID string, menuItemID int64, quantity int32) (*domain.Cart, error)
	SetQuantity(ctx context.Context, registerID string, menuItemID int64, quantity int32) (*domain.Cart, error)
	RemoveItem(ctx context.Context, registerID string, menuItemID int64) (*domain.Cart, error)
	Clear(ctx context.Context, registerID string) (*domain.Cart, error)
	LockForPayment(ctx context.Context, registerID string) (*domain.Cart, error)
	Unlock(ctx context.Context, registerID string) (*domain.Cart, error)
}
