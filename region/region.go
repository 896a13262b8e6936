// Package region implements the catch primitive underneath a boundary: a
// latch that runs functions, converts their panics to errors, and holds the
// first failure until an explicit reset.
package region

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/viewlabs/boundary/contexts"
	"github.com/viewlabs/boundary/logger"
	"go.uber.org/atomic"
)

// ErrFailed is returned by Do while the region holds a caught failure.
var ErrFailed = errors.New("region is failed")

// Region guards a unit of work. The first failure (returned error or panic)
// latches; once latched, Do refuses to run anything until Reset clears the
// latch. All methods are safe for concurrent use.
type Region struct {
	mu     sync.Mutex
	caught error
	at     time.Time

	// failed mirrors caught != nil so Failed can skip the mutex.
	failed atomic.Bool

	onTrip  []func(context.Context, error)
	onReset []func(context.Context)
}

// New returns a region in the un-failed state.
func New() *Region {
	return &Region{}
}

// Do runs fn inside the region. A panic in fn becomes a *PanicError. The
// first failure latches the region and fires trip hooks; while latched, Do
// returns ErrFailed without running fn.
func (r *Region) Do(ctx context.Context, fn func(context.Context) error) error {
	if r.failed.Load() {
		return ErrFailed
	}

	ctx = contexts.EnsureContext(ctx)

	err := Catch(func() error {
		return fn(ctx)
	})
	if err != nil {
		r.latch(ctx, err)
	}

	return err
}

// latch records a failure. The first failure wins; a failure arriving from
// work that was already in flight when the region latched is dropped here
// (the caller still saw its own error from Do).
func (r *Region) latch(ctx context.Context, err error) {
	r.mu.Lock()

	if r.failed.Load() {
		r.mu.Unlock()

		return
	}

	r.caught = err
	r.at = time.Now()
	r.failed.Store(true)

	hooks := make([]func(context.Context, error), len(r.onTrip))
	copy(hooks, r.onTrip)

	r.mu.Unlock()

	for _, fn := range hooks {
		runHook(ctx, "trip", func(ctx context.Context) {
			fn(ctx, err)
		})
	}
}

// Failed reports whether the region holds a caught failure.
func (r *Region) Failed() bool {
	return r.failed.Load()
}

// Caught returns the latched failure, if any.
func (r *Region) Caught() (error, bool) { //nolint:revive // error is the value here, not a failure of Caught
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.caught, r.caught != nil
}

// CaughtAt returns the time the current failure latched, or the zero time
// when the region is not failed.
func (r *Region) CaughtAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.at
}

// Reset clears the latch and reports whether the region was failed. Reset
// hooks run only when a latched failure was actually cleared.
func (r *Region) Reset(ctx context.Context) bool {
	ctx = contexts.EnsureContext(ctx)

	r.mu.Lock()

	if !r.failed.Load() {
		r.mu.Unlock()

		return false
	}

	r.caught = nil
	r.at = time.Time{}
	r.failed.Store(false)

	hooks := make([]func(context.Context), len(r.onReset))
	copy(hooks, r.onReset)

	r.mu.Unlock()

	for _, fn := range hooks {
		runHook(ctx, "reset", fn)
	}

	return true
}

// OnTrip registers a hook invoked once per un-failed-to-failed transition,
// with the error that latched. Hooks run synchronously in registration
// order, outside the region's lock.
func (r *Region) OnTrip(fn func(context.Context, error)) {
	if fn == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.onTrip = append(r.onTrip, fn)
}

// OnReset registers a hook invoked after the latch clears.
func (r *Region) OnReset(fn func(context.Context)) {
	if fn == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.onReset = append(r.onReset, fn)
}

// runHook invokes a hook, converting a panic into a log record. A hook can
// never re-fail the region.
func runHook(ctx context.Context, kind string, fn func(context.Context)) {
	if fn == nil {
		return
	}

	err := Catch(func() error {
		fn(ctx)

		return nil
	})
	if err != nil {
		logger.Get(ctx).Error("region hook panicked", "hook", kind, "error", err)
	}
}
