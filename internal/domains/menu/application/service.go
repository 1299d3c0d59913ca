package application

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-pos-server/internal/domains/menu/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/menu/ports"
	"github.com/Apurer/go-gin-pos-server/internal/shared/projection"
)

// Service orchestrates menu use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) AddItem(ctx context.Context, item *domain.MenuItem) (*projection.Projection[*domain.MenuItem], error) {
	if item == nil {
		return nil, errors.New("menu item is nil")
	}
	if err := item.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Insert(ctx, item)
}

func (s *Service) UpdateItem(ctx context.Context, item *domain.MenuItem) (*projection.Projection[*domain.MenuItem], error) {
	if item == nil {
		return nil, errors.New("menu item is nil")
	}
	if err := item.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Update(ctx, item)
}

func (s *Service) DeleteItem(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetItem(ctx context.Context, id int64) (*projection.Projection[*domain.MenuItem], error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListItems(ctx context.Context) ([]*projection.Projection[*domain.MenuItem], error) {
	return s.repo.List(ctx)
}

// MoveUp swaps the item with its predecessor and returns the reordered menu.
// Moving the first item is a no-op.
func (s *Service) MoveUp(ctx context.Context, id int64) ([]*projection.Projection[*domain.MenuItem], error) {
	return s.move(ctx, id, ports.Up)
}

// MoveDown swaps the item with its successor and returns the reordered menu.
func (s *Service) MoveDown(ctx context.Context, id int64) ([]*projection.Projection[*domain.MenuItem], error) {
	return s.move(ctx, id, ports.Down)
}

func (s *Service) move(ctx context.Context, id int64, direction ports.Direction) ([]*projection.Projection[*domain.MenuItem], error) {
	if _, err := s.repo.SwapWithNeighbour(ctx, id, direction); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

var _ ports.Service = (*Service)(nil)
