package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/go-gin-pos-server/internal/domains/menu/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/menu/ports"
	"github.com/Apurer/go-gin-pos-server/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory menu store used for demos and tests.
type Repository struct {
	mu     sync.RWMutex
	items  map[int64]*storedItem
	nextID int64
	now    func() time.Time
}

type storedItem struct {
	item     *domain.MenuItem
	metadata projection.Metadata
}

func NewRepository() *Repository {
	return &Repository{
		items: map[int64]*storedItem{},
		now:   time.Now,
	}
}

// WithClock overrides the timestamp source.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Insert(_ context.Context, item *domain.MenuItem) (*projection.Projection[*domain.MenuItem], error) {
	if item == nil {
		return nil, errors.New("cannot insert nil menu item")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var maxIndex int64
	for _, entry := range r.items {
		if entry.item.OrderIndex > maxIndex {
			maxIndex = entry.item.OrderIndex
		}
	}
	r.nextID++
	clone := item.Clone()
	clone.ID = r.nextID
	clone.OrderIndex = maxIndex + 1

	timestamp := r.now()
	stored := &storedItem{item: clone, metadata: projection.Metadata{CreatedAt: timestamp, UpdatedAt: timestamp}}
	r.items[clone.ID] = stored
	return projectionCopy(stored), nil
}

func (r *Repository) Update(_ context.Context, item *domain.MenuItem) (*projection.Projection[*domain.MenuItem], error) {
	if item == nil {
		return nil, errors.New("cannot update nil menu item")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.items[item.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := item.Clone()
	clone.OrderIndex = entry.item.OrderIndex
	entry.item = clone
	entry.metadata.UpdatedAt = r.now()
	return projectionCopy(entry), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*projection.Projection[*domain.MenuItem], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return projectionCopy(entry), nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.items[id]
	if !ok {
		return ports.ErrNotFound
	}
	delete(r.items, id)
	timestamp := r.now()
	for _, other := range r.items {
		if other.item.OrderIndex > entry.item.OrderIndex {
			other.item.OrderIndex--
			other.metadata.UpdatedAt = timestamp
		}
	}
	return nil
}

func (r *Repository) List(_ context.Context) ([]*projection.Projection[*domain.MenuItem], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ordered := r.orderedLocked()
	list := make([]*projection.Projection[*domain.MenuItem], 0, len(ordered))
	for _, entry := range ordered {
		list = append(list, projectionCopy(entry))
	}
	return list, nil
}

func (r *Repository) SwapWithNeighbour(_ context.Context, id int64, direction ports.Direction) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false, ports.ErrNotFound
	}
	ordered := r.orderedLocked()
	pos := -1
	for i, entry := range ordered {
		if entry.item.ID == id {
			pos = i
			break
		}
	}
	neighbour := pos - 1
	if direction == ports.Down {
		neighbour = pos + 1
	}
	if neighbour < 0 || neighbour >= len(ordered) {
		return false, nil
	}
	current, other := ordered[pos], ordered[neighbour]
	current.item.OrderIndex, other.item.OrderIndex = other.item.OrderIndex, current.item.OrderIndex
	timestamp := r.now()
	current.metadata.UpdatedAt = timestamp
	other.metadata.UpdatedAt = timestamp
	return true, nil
}

func (r *Repository) orderedLocked() []*storedItem {
	ordered := make([]*storedItem, 0, len(r.items))
	for _, entry := range r.items {
		ordered = append(ordered, entry)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].item.OrderIndex != ordered[j].item.OrderIndex {
			return ordered[i].item.OrderIndex < ordered[j].item.OrderIndex
		}
		return ordered[i].item.ID < ordered[j].item.ID
	})
	return ordered
}

func projectionCopy(entry *storedItem) *projection.Projection[*domain.MenuItem] {
	return &projection.Projection[*domain.MenuItem]{
		Entity:   entry.item.Clone(),
		Metadata: entry.metadata,
	}
}
