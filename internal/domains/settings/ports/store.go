package ports

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when merchant credentials have not been saved yet.
var ErrNotConfigured = errors.New("merchant configuration not set")

// Store is a flat key-value preference store.
type Store interface {
	// Get reports ok=false for a missing key.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
