// Package boundary wraps component renderers in error boundaries: stateful
// guards that catch render-time failures (returned errors and panics),
// substitute fallback content, and recover only on an explicit retry.
//
// Wrapping is non-destructive. While the boundary is Normal, Render returns
// the inner component's output unchanged:
//
//	card := boundary.Func[User](func(ctx context.Context, u User) (string, error) {
//	    return "hello, " + u.Name, nil
//	})
//	b := boundary.Wrap[User](card, boundary.WithName("user-card"))
//	out := b.Render(ctx, user)
//
// The first failure latches the boundary into Failed. From then on Render
// returns fallback content without invoking the component, until an explicit
// retry or reset:
//
//	if b.State() == boundary.Failed {
//	    b.Retry(ctx) // runs the retry callback, then resets
//	}
//
// Rendering through a boundary never returns an error to the caller: every
// failure is caught, logged, counted, and represented as fallback content.
package boundary

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viewlabs/boundary/contexts"
	"github.com/viewlabs/boundary/logger"
	"github.com/viewlabs/boundary/region"
	"github.com/viewlabs/boundary/surface"
	"go.opentelemetry.io/otel/trace"
)

// State is the boundary's lifecycle state. There are exactly two.
type State string

const (
	// Normal means renders delegate to the inner component.
	Normal State = "normal"

	// Failed means a caught failure latched; renders yield fallback content
	// until an explicit retry or reset.
	Failed State = "failed"
)

// ErrNilComponent is the failure latched when a boundary wraps a nil
// component.
var ErrNilComponent = errors.New("nil component")

// Boundary wraps a Component. Create one with Wrap; the zero value is not
// usable. All methods are safe for concurrent use.
type Boundary[P any] struct {
	name    string
	inner   Component[P]
	region  *region.Region
	surface surface.Surface

	// retryMu serializes Retry so the callback runs at most once per
	// Failed episode even under concurrent retries.
	retryMu sync.Mutex

	onRetry       func(ctx context.Context)
	onCaught      []func(ctx context.Context, f surface.Failure)
	onStateChange []func(name string, from State, to State)

	latchOff bool
}

var _ Status = (*Boundary[string])(nil)

// Wrap builds an error boundary around a component. It never fails: without
// options the boundary gets the default surface and a generated name, and a
// nil component becomes a latched ErrNilComponent on first render rather
// than a constructor panic.
func Wrap[P any](component Component[P], opts ...Option) *Boundary[P] {
	o := newOptions()

	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	if o.name == "" {
		o.name = "boundary-" + uuid.NewString()
	}

	b := &Boundary[P]{
		name:          o.name,
		inner:         component,
		region:        region.New(),
		surface:       o.surface,
		onRetry:       o.onRetry,
		onCaught:      o.onCaught,
		onStateChange: o.onStateChange,
		latchOff:      o.latchOff,
	}

	b.region.OnTrip(b.tripped)
	b.region.OnReset(b.resetDone)

	for _, fn := range o.onReset {
		b.region.OnReset(fn)
	}

	return b
}

// Render renders props through the boundary. In Normal state the inner
// component runs and its output is returned unchanged. A failure latches the
// boundary and returns fallback content, for this and for every later render,
// until Retry or Reset. Props keep being accepted while Failed; they reach
// the component again only after the reset.
func (b *Boundary[P]) Render(ctx context.Context, props P) string {
	ctx = logger.WithBoundary(contexts.EnsureContext(ctx), b.name)

	ctx, span := startRenderSpan(ctx, b.name)
	defer span.End()

	if b.latchOff {
		return b.renderUnlatched(ctx, props, span)
	}

	if b.region.Failed() {
		rendersTotal.WithLabelValues(sanitizeName(b.name), outcomeFallback).Inc()
		recordSpanFallback(span)

		return b.fallback(ctx)
	}

	var content string

	start := time.Now()

	err := b.region.Do(ctx, func(ctx context.Context) error {
		if b.inner == nil {
			return ErrNilComponent
		}

		var renderErr error
		content, renderErr = b.inner.Render(ctx, props)

		return renderErr
	})

	renderDuration.WithLabelValues(sanitizeName(b.name)).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, region.ErrFailed) {
			// Lost a race with a concurrent render that latched first;
			// nothing new was caught here.
			rendersTotal.WithLabelValues(sanitizeName(b.name), outcomeFallback).Inc()
			recordSpanFallback(span)

			return b.fallback(ctx)
		}

		b.logFailure(ctx, err)

		rendersTotal.WithLabelValues(sanitizeName(b.name), outcomeCaught).Inc()
		recordSpanFailure(span, err)

		return b.fallback(ctx)
	}

	rendersTotal.WithLabelValues(sanitizeName(b.name), outcomeSuccess).Inc()
	recordSpanSuccess(span)

	return content
}

// renderUnlatched is Render with the latch turned off: the component always
// runs, a failure yields fallback content for this render only, and the
// boundary stays Normal.
func (b *Boundary[P]) renderUnlatched(ctx context.Context, props P, span trace.Span) string {
	var content string

	start := time.Now()

	err := region.Catch(func() error {
		if b.inner == nil {
			return ErrNilComponent
		}

		var renderErr error
		content, renderErr = b.inner.Render(ctx, props)

		return renderErr
	})

	renderDuration.WithLabelValues(sanitizeName(b.name)).Observe(time.Since(start).Seconds())

	if err != nil {
		b.logFailure(ctx, err)

		rendersTotal.WithLabelValues(sanitizeName(b.name), outcomeCaught).Inc()
		recordSpanFailure(span, err)

		return b.fallbackFor(ctx, b.newFailure(err, time.Now()))
	}

	rendersTotal.WithLabelValues(sanitizeName(b.name), outcomeSuccess).Inc()
	recordSpanSuccess(span)

	return content
}

// Retry recovers a failed boundary: it invokes the retry callback (when one
// is configured) and then resets. The callback runs while the boundary is
// still Failed, so the component's next render sees whatever it repaired.
// Returns false, without invoking the callback, when the boundary is not
// failed; calling Retry twice performs one callback and one reset.
//
// A panic in the callback is caught and logged; the boundary still resets.
func (b *Boundary[P]) Retry(ctx context.Context) bool {
	b.retryMu.Lock()
	defer b.retryMu.Unlock()

	if !b.region.Failed() {
		return false
	}

	ctx = logger.WithBoundary(contexts.EnsureContext(ctx), b.name)

	ctx, span := startRetrySpan(ctx, b.name)
	defer span.End()

	if b.onRetry != nil {
		guard(ctx, "retry", b.onRetry)
	}

	return b.region.Reset(ctx)
}

// Reset clears a latched failure without invoking the retry callback (Retry
// is the callback followed by Reset). Reports whether a failure was cleared.
func (b *Boundary[P]) Reset(ctx context.Context) bool {
	ctx = logger.WithBoundary(contexts.EnsureContext(ctx), b.name)

	return b.region.Reset(ctx)
}

// State returns Normal or Failed.
func (b *Boundary[P]) State() State {
	if b.region.Failed() {
		return Failed
	}

	return Normal
}

// CaughtError returns the latched failure, if any.
func (b *Boundary[P]) CaughtError() (error, bool) { //nolint:revive // error is the value here, not a failure of CaughtError
	return b.region.Caught()
}

// Name returns the boundary's name.
func (b *Boundary[P]) Name() string {
	return b.name
}

// tripped runs once per Normal-to-Failed transition, from whichever render
// latched the failure.
func (b *Boundary[P]) tripped(ctx context.Context, err error) {
	kind := kindError
	if errors.Is(err, region.ErrPanic) {
		kind = kindPanic
	}

	tripsTotal.WithLabelValues(sanitizeName(b.name), kind).Inc()

	logger.Get(ctx).Warn("boundary failed, rendering fallback until retried",
		"error", err, "kind", kind)

	for _, fn := range b.onStateChange {
		guard(ctx, "state change", func(context.Context) {
			fn(b.name, Normal, Failed)
		})
	}

	failure := b.newFailure(err, b.region.CaughtAt())

	for _, fn := range b.onCaught {
		guard(ctx, "caught", func(ctx context.Context) {
			fn(ctx, failure)
		})
	}
}

// resetDone runs after the latch clears, before any user reset hooks.
func (b *Boundary[P]) resetDone(ctx context.Context) {
	resetsTotal.WithLabelValues(sanitizeName(b.name)).Inc()

	logger.Get(ctx).Info("boundary reset, renders delegate to the component again")

	for _, fn := range b.onStateChange {
		guard(ctx, "state change", func(context.Context) {
			fn(b.name, Failed, Normal)
		})
	}
}

// fallback renders the surface for the currently latched failure.
func (b *Boundary[P]) fallback(ctx context.Context) string {
	err, _ := b.region.Caught()

	return b.fallbackFor(ctx, b.newFailure(err, b.region.CaughtAt()))
}

// fallbackFor renders the surface, rescuing a failing surface with the plain
// built-in one. The boundary never throws.
func (b *Boundary[P]) fallbackFor(ctx context.Context, failure surface.Failure) string {
	s := b.surface
	if s == nil {
		s = surface.Default()
	}

	var content string

	err := region.Catch(func() error {
		content = s.Render(ctx, failure)

		return nil
	})
	if err != nil {
		logger.Get(ctx).Error("fallback surface failed, using the plain one", "error", err)

		content = surface.Plain().Render(ctx, failure)
	}

	return content
}

func (b *Boundary[P]) newFailure(err error, at time.Time) surface.Failure {
	return surface.Failure{
		Boundary: b.name,
		Err:      err,
		Panicked: errors.Is(err, region.ErrPanic),
		At:       at,
	}
}

// logFailure emits the mandatory record for a caught failure, with the stack
// when the failure was a panic.
func (b *Boundary[P]) logFailure(ctx context.Context, err error) {
	log := logger.Get(ctx)

	var panicErr *region.PanicError
	if errors.As(err, &panicErr) {
		log.Error("component panicked during render",
			"error", err, "stack", string(panicErr.Stack))

		return
	}

	log.Error("component failed during render", "error", err)
}

// guard runs a hook, logging a panic instead of propagating it. A hook can
// never take the boundary down.
func guard(ctx context.Context, kind string, fn func(context.Context)) {
	err := region.Catch(func() error {
		fn(ctx)

		return nil
	})
	if err != nil {
		logger.Get(ctx).Error("boundary hook panicked", "hook", kind, "error", err)
	}
}
