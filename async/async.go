// Package async renders through boundaries off the caller's goroutine, on a
// shared worker pool with graceful drain on shutdown.
package async

import (
	"context"
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/viewlabs/boundary"
	"github.com/viewlabs/boundary/contexts"
	"github.com/viewlabs/boundary/envcfg"
	"github.com/viewlabs/boundary/lazy"
	"github.com/viewlabs/boundary/logger"
	"github.com/viewlabs/boundary/shutdown"
)

const defaultWorkerCount = 8

// renderPool is a lazy-initialized worker pool, sized by BOUNDARY_WORKER_COUNT.
// Assigned in init because its create callback refers to Shutdown, which
// refers back to renderPool.
var renderPool *lazy.Of[pond.Pool] //nolint:gochecknoglobals

func init() {
	renderPool = lazy.New[pond.Pool](func() pond.Pool {
		count := envcfg.Int("BOUNDARY_WORKER_COUNT",
			envcfg.Default(defaultWorkerCount)).ValueOrElse(defaultWorkerCount)

		logger.Get().Debug("initializing render worker pool", "count", count)

		pool := pond.NewPool(count)

		shutdown.BeforeShutdown("render worker pool", Shutdown)

		return pool
	})
}

var shutdownOnce sync.Once //nolint:gochecknoglobals

// Ticket is a claim on a render happening in the background.
type Ticket struct {
	done    chan struct{}
	content string
}

// Wait blocks until the render finishes, returning its content. When ctx
// ends first, Wait returns its error; the render keeps running in the pool
// and its outcome still reaches the boundary.
func (t *Ticket) Wait(ctx context.Context) (string, error) {
	ctx = contexts.EnsureContext(ctx)

	select {
	case <-t.done:
		return t.content, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Done reports whether the render has finished, without blocking.
func (t *Ticket) Done() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Render renders props through b on the pool. Boundary semantics are
// unchanged: a failure latches the boundary and the ticket carries fallback
// content, never an error.
func Render[P any](ctx context.Context, b *boundary.Boundary[P], props P) *Ticket {
	ticket := &Ticket{done: make(chan struct{})}

	Submit(func() {
		defer close(ticket.done)

		ticket.content = b.Render(ctx, props)
	})

	return ticket
}

// Submit hands fn to the render pool. The returned Task reports fn's
// completion, including a recovered panic.
func Submit(fn func()) pond.Task { //nolint:ireturn
	return renderPool.Get().Submit(fn)
}

// Shutdown drains the pool, waiting for already-submitted renders. It runs
// automatically as a process shutdown hook; calling it again is a no-op, and
// a pool that was never used is not created just to be stopped.
func Shutdown() {
	shutdownOnce.Do(func() {
		if !renderPool.Initialized() {
			return
		}

		logger.Get().Debug("stopping render worker pool")

		renderPool.Get().StopAndWait()
	})
}
