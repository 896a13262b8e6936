// Package surface builds the fallback content a boundary shows in place of a
// failed component.
package surface

import (
	"context"
	"time"
)

// Failure describes a caught render failure. It is handed to a Surface so the
// fallback can reference the boundary and the error.
type Failure struct {
	// Boundary is the name of the boundary that caught the failure. May be
	// empty when the failure is rendered outside a named boundary.
	Boundary string

	// Err is the caught error. For panics this is a *region.PanicError.
	Err error

	// Panicked reports whether the failure came from a panic rather than a
	// returned error.
	Panicked bool

	// At is when the failure was caught.
	At time.Time
}

// Message returns the caught error's message, or a placeholder when no error
// was recorded.
func (f Failure) Message() string {
	if f.Err == nil {
		return "unknown failure"
	}

	return f.Err.Error()
}

// Surface produces fallback content for a failure.
type Surface interface {
	Render(ctx context.Context, failure Failure) string
}

// Func adapts a function to the Surface interface.
type Func func(ctx context.Context, failure Failure) string

// Render implements Surface.
func (f Func) Render(ctx context.Context, failure Failure) string {
	return f(ctx, failure)
}

// Static returns a surface that renders the given content verbatim, ignoring
// the failure.
func Static(content string) Surface {
	return Func(func(context.Context, Failure) string {
		return content
	})
}

// Plain returns an unstyled single-line surface containing the error message.
func Plain() Surface {
	return Func(func(_ context.Context, failure Failure) string {
		return "render failed: " + failure.Message()
	})
}
