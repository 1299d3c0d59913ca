package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-gin-pos-server/internal/domains/settings/ports"
)

var _ ports.Store = (*Store)(nil)

// Store keeps preferences in process memory.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewStore() *Store {
	return &Store{values: map[string]string{}}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *Store) Put(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
