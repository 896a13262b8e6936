// Package lazy provides values that are initialized at most once, on first
// access.
package lazy

import (
	"sync"
	"sync/atomic"
)

// Of is a lazy value that is initialized at most once.
type Of[T any] struct {
	create      func() T
	once        sync.Once
	value       T
	initialized atomic.Bool
}

// Get returns the value, initializing it first if necessary. If the create
// function panics, the once state is reset so a later Get can retry; panics
// never memoize.
func (t *Of[T]) Get() T { //nolint:ireturn
	defer func() {
		if err := recover(); err != nil {
			t.once = sync.Once{}

			panic(err)
		}
	}()

	t.once.Do(func() {
		if t.create != nil {
			t.value = t.create()
			t.initialized.Store(true)
			t.create = nil
		}
	})

	return t.value
}

// Set overwrites the value directly, bypassing lazy initialization. Prefer
// Get with a create callback; Set exists for tests and fixups.
func (t *Of[T]) Set(value T) {
	t.create = nil
	t.value = value
	t.initialized.Store(true)
}

// Initialized reports whether the value has been produced. Intended for tests
// and debugging, not normal control flow.
func (t *Of[T]) Initialized() bool {
	return t.initialized.Load()
}

// New creates a lazy value. The callback runs when the value is first
// accessed.
func New[T any](f func() T) *Of[T] {
	return &Of[T]{create: f}
}
