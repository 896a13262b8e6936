// Package contexts provides small helpers for working with context.Context:
// nil-safe defaulting, liveness checks, and type-safe value storage.
package contexts

import "context"

// EnsureContext returns the first non-nil context passed in. If every value
// is nil (or none are given), a new background context is returned.
func EnsureContext(ctx ...context.Context) context.Context {
	for _, c := range ctx {
		if c != nil {
			return c
		}
	}

	return context.Background()
}

// IsContextAlive returns true if the context is non-nil and not done.
func IsContextAlive(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	// Non-blocking check.
	select {
	case <-ctx.Done():
		return false
	default:
		return true
	}
}

// WithValue is a type-safe wrapper around context.WithValue. A nil ctx is
// replaced with a background context.
func WithValue[K any, V any](ctx context.Context, key K, value V) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, key, value)
}

// GetValue retrieves a value of type V stored under key. It returns the zero
// value and false when the key is absent, the stored value has a different
// type, or ctx is nil.
func GetValue[K any, V any](ctx context.Context, key K) (V, bool) {
	var zero V

	if ctx == nil {
		return zero, false
	}

	val := ctx.Value(key)
	if val == nil {
		return zero, false
	}

	v, ok := val.(V)
	if !ok {
		return zero, false
	}

	return v, true
}
