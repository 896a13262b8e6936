// Package registry tracks named boundaries so operational tooling can list
// them, read their states, and reset or retry them in bulk. A registry can
// also carry default options and YAML-backed per-boundary configuration that
// its Wrap applies to every boundary built through it.
package registry

import (
	"context"
	"errors"
	"sync"

	"facette.io/natsort"
	"github.com/viewlabs/boundary"
	"github.com/viewlabs/boundary/logger"
	"github.com/viewlabs/boundary/region"
)

var (
	// ErrDuplicateName is returned when registering a boundary under a name
	// that is already taken.
	ErrDuplicateName = errors.New("duplicate boundary name")

	// ErrNilBoundary is returned when registering nil.
	ErrNilBoundary = errors.New("nil boundary")

	// ErrUnnamedBoundary is returned when a boundary reports an empty name.
	ErrUnnamedBoundary = errors.New("unnamed boundary")

	// ErrNoLoader is returned by LoadConfig in name mode when no ConfigLoader
	// has been registered.
	ErrNoLoader = errors.New("no config loader registered")

	// ErrHintWithFallback marks config that sets both a static fallback and
	// a retry hint; the hint only shows on the default surface.
	ErrHintWithFallback = errors.New("retryHint has no effect with a static fallback")
)

// StateChangeListener observes boundary state transitions.
type StateChangeListener interface {
	StateChanged(name string, from boundary.State, to boundary.State)
}

// ListenerFunc adapts a function to the StateChangeListener interface.
type ListenerFunc func(name string, from boundary.State, to boundary.State)

// StateChanged implements StateChangeListener.
func (f ListenerFunc) StateChanged(name string, from boundary.State, to boundary.State) {
	f(name, from, to)
}

// Option is a function that configures a Registry.
type Option func(*options)

type options struct {
	config   *Config
	defaults []boundary.Option
}

// WithConfig attaches per-boundary configuration. Wrap consults it by
// boundary name; boundaries without a config entry are unaffected.
//
// Example:
//
//	cfg, err := registry.LoadConfig("config/boundaries.yaml")
//	if err != nil { ... }
//	reg := registry.New(registry.WithConfig(cfg))
func WithConfig(cfg *Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithDefaults sets boundary options that Wrap applies to every boundary
// built through this registry, before per-boundary config and call-site
// options.
//
// Example:
//
//	reg := registry.New(registry.WithDefaults(
//	    boundary.WithSurface(surface.DefaultWithHint("ask an operator to retry"))))
func WithDefaults(opts ...boundary.Option) Option {
	return func(o *options) {
		o.defaults = append(o.defaults, opts...)
	}
}

// Registry is a thread-safe collection of named boundaries.
type Registry struct {
	mu         sync.RWMutex
	boundaries map[string]boundary.Status
	listeners  []StateChangeListener

	config   *Config
	defaults []boundary.Option
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	o := &options{}

	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	return &Registry{
		boundaries: make(map[string]boundary.Status),
		config:     o.config,
		defaults:   o.defaults,
	}
}

// Register adds a boundary under its own name. Boundaries built with
// registry.Wrap are registered automatically; Register is for boundaries
// constructed elsewhere.
func (r *Registry) Register(s boundary.Status) error {
	if s == nil {
		return ErrNilBoundary
	}

	name := s.Name()
	if name == "" {
		return ErrUnnamedBoundary
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.boundaries[name]; taken {
		return ErrDuplicateName
	}

	r.boundaries[name] = s

	return nil
}

// Get returns the boundary registered under name, if any.
func (r *Registry) Get(name string) (boundary.Status, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.boundaries[name]

	return s, ok
}

// Names returns the registered names in natural sort order ("card-2" before
// "card-10").
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.boundaries))
	for name := range r.boundaries {
		names = append(names, name)
	}

	natsort.Sort(names)

	return names
}

// Snapshot returns the current state of every registered boundary.
func (r *Registry) Snapshot() map[string]boundary.State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[string]boundary.State, len(r.boundaries))
	for name, s := range r.boundaries {
		snapshot[name] = s.State()
	}

	return snapshot
}

// ResetAll resets every failed boundary and returns how many were cleared.
func (r *Registry) ResetAll(ctx context.Context) int {
	cleared := 0

	for _, s := range r.statuses() {
		if s.Reset(ctx) {
			cleared++
		}
	}

	return cleared
}

// RetryAll retries every failed boundary (running their retry callbacks) and
// returns how many were cleared.
func (r *Registry) RetryAll(ctx context.Context) int {
	cleared := 0

	for _, s := range r.statuses() {
		if s.Retry(ctx) {
			cleared++
		}
	}

	return cleared
}

// statuses copies the registered boundaries so bulk operations run without
// holding the registry lock.
func (r *Registry) statuses() []boundary.Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]boundary.Status, 0, len(r.boundaries))
	for _, s := range r.boundaries {
		all = append(all, s)
	}

	return all
}

// RegisterListener subscribes a listener to the state changes of every
// boundary built through this registry's Wrap. A nil listener is ignored.
func (r *Registry) RegisterListener(l StateChangeListener) {
	if l == nil {
		logger.Get().Warn("ignoring nil state change listener")

		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.listeners = append(r.listeners, l)
}

// notify fans a state change out to the listeners. Each listener runs in its
// own goroutine; a panicking listener is logged and cannot poison the
// registry or the boundary that fired the change.
func (r *Registry) notify(name string, from boundary.State, to boundary.State) {
	r.mu.RLock()
	listeners := make([]StateChangeListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.RUnlock()

	for _, l := range listeners {
		go func() {
			err := region.Catch(func() error {
				l.StateChanged(name, from, to)

				return nil
			})
			if err != nil {
				logger.Get().Error("state change listener panicked",
					"boundary", name, "error", err)
			}
		}()
	}
}
