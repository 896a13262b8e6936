package contexts

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

// WithMultipleValues attaches several key-value pairs to a context in a single
// wrapper instead of a chain of context.WithValue calls. The context tree stays
// shallow, which keeps Value() lookups cheap when many values are attached.
//
// Key must be comparable. Panics if parent or vals is nil; an empty map is
// allowed.
func WithMultipleValues[Key comparable](parent context.Context, vals map[Key]any) context.Context {
	if parent == nil {
		panic("cannot create context from nil parent")
	}

	if vals == nil {
		panic("nil vals passed to WithMultipleValues")
	}

	return &multiValueCtx[Key]{parent, vals}
}

// multiValueCtx stores a map of values on top of a parent context. Lookups
// consult the local map first and fall back to the parent.
type multiValueCtx[Key comparable] struct {
	context.Context //nolint:containedctx

	vals map[Key]any
}

// Value implements context.Context. The key must be exactly type Key for the
// local map to be consulted; anything else is delegated to the parent.
func (c *multiValueCtx[T]) Value(key any) any {
	if c.vals != nil {
		if reflect.TypeOf(key) == reflect.TypeFor[T]() {
			//nolint:forcetypeassert
			typedKey := key.(T) // exact type verified above

			v, found := c.vals[typedKey]
			if found {
				return v
			}
		}
	}

	return c.Context.Value(key)
}

// String renders the context chain for debugging, in the style of the standard
// library's context implementations. Pair order is non-deterministic.
func (c *multiValueCtx[T]) String() string {
	if len(c.vals) == 0 {
		return contextName(c.Context) + ".WithMultipleValues()"
	}

	var builder strings.Builder

	builder.WriteString(contextName(c.Context))
	builder.WriteString(".WithMultipleValues(")

	first := true
	for k, v := range c.vals {
		if !first {
			builder.WriteString(", ")
		}

		first = false

		builder.WriteString(stringify(k))
		builder.WriteString("=")
		builder.WriteString(stringify(v))
	}

	builder.WriteString(")")

	return builder.String()
}

// stringify renders a value for debug output: Stringer or string values are
// used directly, nil becomes "<nil>", anything else falls back to its type.
func stringify(v any) string {
	switch s := v.(type) {
	case fmt.Stringer:
		return s.String()
	case string:
		return s
	case nil:
		return "<nil>"
	}

	return reflect.TypeOf(v).String()
}

// contextName names a context for debug output.
func contextName(c context.Context) string {
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}

	return reflect.TypeOf(c).String()
}
