// Package projection pairs stored entities with their persistence timestamps.
package projection

import "time"

type Metadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Projection is an entity as read back from a repository.
type Projection[T any] struct {
	Entity   T
	Metadata Metadata
}

// New stamps a freshly created entity; both timestamps are set to at.
func New[T any](entity T, at time.Time) *Projection[T] {
	return &Projection[T]{Entity: entity, Metadata: Metadata{CreatedAt: at, UpdatedAt: at}}
}

// Map converts a list of projections, preserving order.
func Map[T, R any](items []*Projection[T], fn func(*Projection[T]) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
