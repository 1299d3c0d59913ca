package ports

import (
	"context"

	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-pos-server/internal/shared/nexo"
)

// FinalizeInput carries an approved payment for the register's current cart.
type FinalizeInput struct {
	RegisterID    string
	Response      *nexo.Response
	PaymentMethod string
	Currency      string
}

// Service exposes order use cases to adapters.
type Service interface {
	Finalize(ctx context.Context, input FinalizeInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
}
