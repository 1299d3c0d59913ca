package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps orders in process memory.
type Repository struct {
	mu         sync.RWMutex
	orders     map[int64]*domain.Order
	nextID     int64
	nextItemID int64
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]*domain.Order{}}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.orders {
		if existing.TransactionID == order.TransactionID {
			return nil, ports.ErrDuplicateTransaction
		}
	}
	r.nextID++
	stored := order.Clone()
	stored.ID = r.nextID
	for i := range stored.Items {
		r.nextItemID++
		stored.Items[i].ID = r.nextItemID
		stored.Items[i].OrderID = stored.ID
	}
	r.orders[stored.ID] = stored
	return stored.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order.Clone(), nil
}

func (r *Repository) GetByTransactionID(_ context.Context, transactionID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, order := range r.orders {
		if order.TransactionID == transactionID {
			return order.Clone(), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		list = append(list, order.Clone())
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}
