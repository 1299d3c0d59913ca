package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-pos-server/internal/domains/menu/domain"
	"github.com/Apurer/go-gin-pos-server/internal/shared/projection"
)

var ErrNotFound = errors.New("menu item not found")

// Repository persists menu items and their display order.
type Repository interface {
	// Insert stores a new item at the end of the menu (max order index + 1).
	Insert(ctx context.Context, item *domain.MenuItem) (*projection.Projection[*domain.MenuItem], error)
	// Update replaces an item's attributes; the order index is left untouched.
	Update(ctx context.Context, item *domain.MenuItem) (*projection.Projection[*domain.MenuItem], error)
	GetByID(ctx context.Context, id int64) (*projection.Projection[*domain.MenuItem], error)
	Delete(ctx context.Context, id int64) error
	// List returns items ordered by order index, then id.
	List(ctx context.Context) ([]*projection.Projection[*domain.MenuItem], error)
	// SwapWithNeighbour atomically exchanges order indices with the adjacent item in the given direction.
	// It reports false when the item is already first (up) or last (down).
	SwapWithNeighbour(ctx context.Context, id int64, direction Direction) (bool, error)
}

// Direction selects the neighbour used when reordering.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}
