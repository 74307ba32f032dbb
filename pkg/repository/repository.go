// Package repository provides a generic, keyed in-memory collection.
//
// One Repository holds every live entity of a single kind, keyed by its
// string ID. All operations are safe for concurrent use: event handlers
// run inside the same call stack as the mutation that triggered them and
// may legally re-enter the store while it is being read elsewhere.
//
// Usage:
//
//	users := repository.New(func(u models.User) string { return u.ID })
//	users.Save(u)
//	admins := users.FindBy(func(u models.User) bool { return u.Role == models.RoleAdmin })
package repository

import (
	"errors"
	"sync"
)

// ErrInvalidEntity is returned by Save when the entity has no ID.
var ErrInvalidEntity = errors.New("repository: entity has empty id")

// Repository is a concurrent-safe map of ID → entity.
type Repository[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	idOf  func(T) string
}

// New creates an empty repository. idOf extracts the key from an entity.
func New[T any](idOf func(T) string) *Repository[T] {
	return &Repository[T]{items: make(map[string]T), idOf: idOf}
}

// Save upserts the entity by its ID. The value is replaced wholesale, so
// readers never observe a half-applied update.
func (r *Repository[T]) Save(entity T) error {
	id := r.idOf(entity)
	if id == "" {
		return ErrInvalidEntity
	}
	r.mu.Lock()
	r.items[id] = entity
	r.mu.Unlock()
	return nil
}

// FindByID returns the entity with the given ID, if present.
func (r *Repository[T]) FindByID(id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.items[id]
	return e, ok
}

// FindAll returns a snapshot copy of every entity. Order is unspecified.
func (r *Repository[T]) FindAll() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, 0, len(r.items))
	for _, e := range r.items {
		out = append(out, e)
	}
	return out
}

// FindBy returns a snapshot of every entity matching pred. A nil pred
// matches everything.
func (r *Repository[T]) FindBy(pred func(T) bool) []T {
	if pred == nil {
		return r.FindAll()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []T
	for _, e := range r.items {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// Delete removes the entity with the given ID, reporting whether it existed.
func (r *Repository[T]) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[id]
	delete(r.items, id)
	return ok
}

// Count returns the number of stored entities.
func (r *Repository[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Clear removes every entity.
func (r *Repository[T]) Clear() {
	r.mu.Lock()
	r.items = make(map[string]T)
	r.mu.Unlock()
}

// Snapshot returns a copy of the full ID → entity map, for persistence.
func (r *Repository[T]) Snapshot() map[string]T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]T, len(r.items))
	for id, e := range r.items {
		out[id] = e
	}
	return out
}

// Restore replaces the full contents with the given map.
func (r *Repository[T]) Restore(data map[string]T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make(map[string]T, len(data))
	for id, e := range data {
		r.items[id] = e
	}
}
