// Package shutdown coordinates process teardown. Packages register hooks to
// run before exit (draining pools, flushing telemetry), and the process either
// installs a signal handler or triggers the shutdown programmatically.
package shutdown

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	mut     sync.Mutex     //nolint:gochecknoglobals
	hooks   []hook         //nolint:gochecknoglobals
	channel chan os.Signal //nolint:gochecknoglobals
)

type hook struct {
	name string
	fn   func()
}

// BeforeShutdown registers a named function to run before the shutdown
// completes. The top-level context is still alive at that point, so hooks can
// use it to clean up resources. Hooks run in registration order.
func BeforeShutdown(name string, fn func()) {
	mut.Lock()
	defer mut.Unlock()

	hooks = append(hooks, hook{name: name, fn: fn})
}

// Shutdown triggers the shutdown process programmatically. Usually a signal
// handler kicks it off instead.
func Shutdown() {
	if channel != nil {
		channel <- os.Interrupt
	}
}

// SetupHandler installs a SIGINT/SIGTERM handler and returns a context that
// is canceled once a signal arrives and all hooks have run.
func SetupHandler() context.Context {
	channel = make(chan os.Signal, 1)
	signal.Notify(channel, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		for c := range channel {
			slog.Warn("Received " + c.String() + ", shutting down...")
			close(channel)

			channel = nil

			cleanup()
			cancel()
		}
	}()

	return ctx
}

func cleanup() {
	mut.Lock()
	defer mut.Unlock()

	for _, h := range hooks {
		slog.Debug("Running shutdown hook", "hook", h.name)
		h.fn()
	}

	hooks = nil
}
