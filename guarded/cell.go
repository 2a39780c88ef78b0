// Package guarded provides a mutex-guarded cell holding a single value.
package guarded

import "sync"

// Cell holds one value of type T. Every access goes through the cell's lock.
//
// Closures passed to Update and Apply run with the lock held. They must not
// block, suspend or touch the same cell again.
type Cell[T any] struct {
	mu    sync.Mutex
	value T
}

func NewCell[T any](value T) *Cell[T] {
	return &Cell[T]{value: value}
}

// Get returns a snapshot of the stored value.
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set replaces the stored value.
func (c *Cell[T]) Set(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
}

// Update mutates the stored value in place.
func (c *Cell[T]) Update(fn func(v *T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.value)
}

// Apply runs fn against the stored value under the lock and returns its result.
// It is the only way to read, compute and write back in one atomic step.
func Apply[T, R any](c *Cell[T], fn func(v *T) R) R {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(&c.value)
}
