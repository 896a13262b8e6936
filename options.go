package boundary

import (
	"context"

	"github.com/viewlabs/boundary/surface"
)

// Option is a function that configures a Boundary.
// Options follow the functional options pattern for flexible configuration.
type Option func(*options)

// options holds the internal configuration for a boundary.
type options struct {
	name          string
	surface       surface.Surface
	onRetry       func(ctx context.Context)
	onCaught      []func(ctx context.Context, f surface.Failure)
	onReset       []func(ctx context.Context)
	onStateChange []func(name string, from State, to State)
	latchOff      bool
}

// WithName names the boundary. The name shows up in log records, metric
// labels, spans and the default fallback content. Without it, Wrap generates
// a unique name.
//
// Example:
//
//	b := boundary.Wrap(card, boundary.WithName("user-card"))
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithFallback sets static fallback content, reproduced verbatim whenever the
// boundary renders in the Failed state.
//
// Example:
//
//	b := boundary.Wrap(card, boundary.WithFallback("user details unavailable"))
func WithFallback(content string) Option {
	return func(o *options) {
		o.surface = surface.Static(content)
	}
}

// WithSurface sets the surface that builds fallback content from the caught
// failure. The last WithFallback or WithSurface option wins.
//
// Example:
//
//	b := boundary.Wrap(card,
//	    boundary.WithSurface(surface.DefaultWithHint("press r to retry")))
func WithSurface(s surface.Surface) Option {
	return func(o *options) {
		if s != nil {
			o.surface = s
		}
	}
}

// WithOnRetry sets the retry callback. Retry invokes it exactly once per
// retry, before the reset, so the component's next render sees whatever the
// callback repaired.
//
// Example:
//
//	b := boundary.Wrap(card, boundary.WithOnRetry(func(ctx context.Context) {
//	    cache.Purge()
//	}))
func WithOnRetry(fn func(ctx context.Context)) Option {
	return func(o *options) {
		o.onRetry = fn
	}
}

// WithOnCaught registers a hook invoked once per caught failure, right after
// the boundary latches. Hooks run in registration order; a panicking hook is
// logged and does not disturb the others.
func WithOnCaught(fn func(ctx context.Context, failure surface.Failure)) Option {
	return func(o *options) {
		if fn != nil {
			o.onCaught = append(o.onCaught, fn)
		}
	}
}

// WithOnReset registers a hook invoked after a retry or reset returns the
// boundary to Normal.
func WithOnReset(fn func(ctx context.Context)) Option {
	return func(o *options) {
		if fn != nil {
			o.onReset = append(o.onReset, fn)
		}
	}
}

// WithOnStateChange registers a hook invoked on every state transition, in
// both directions.
func WithOnStateChange(fn func(name string, from State, to State)) Option {
	return func(o *options) {
		if fn != nil {
			o.onStateChange = append(o.onStateChange, fn)
		}
	}
}

// WithLatchDisabled turns the latch off: every render attempts the component,
// a failing render yields fallback content for that render only, and the
// boundary never enters Failed. This backs the registry's per-boundary
// "disabled" config flag.
func WithLatchDisabled() Option {
	return func(o *options) {
		o.latchOff = true
	}
}

func newOptions() *options {
	return &options{
		surface: surface.Default(),
	}
}
