package ports

import (
	"context"

	"github.com/Apurer/go-gin-pos-server/internal/domains/menu/domain"
	"github.com/Apurer/go-gin-pos-server/internal/shared/projection"
)

// Service exposes menu use cases to adapters.
type Service interface {
	AddItem(ctx context.Context, item *domain.MenuItem) (*projection.Projection[*domain.MenuItem], error)
	UpdateItem(ctx context.Context, item *domain.MenuItem) (*projection.Projection[*domain.MenuItem], error)
	DeleteItem(ctx context.Context, id int64) error
	GetItem(ctx context.Context, id int64) (*projection.Projection[*domain.MenuItem], error)
	ListItems(ctx context.Context) ([]*projection.Projection[*domain.MenuItem], error)
	MoveUp(ctx context.Context, id int64) ([]*projection.Projection[*domain.MenuItem], error)
	MoveDown(ctx context.Context, id int64) ([]*projection.Projection[*domain.MenuItem], error)
}
