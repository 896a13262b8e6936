package registry

import (
	"github.com/viewlabs/boundary"
	"github.com/viewlabs/boundary/surface"
)

// Wrap builds a boundary around component and registers it under name. The
// boundary receives, in order: the registry's defaults, the call-site
// options, and the per-name config entry, so configuration set by operators
// outranks options set in code. The registry's listeners are subscribed to
// the boundary's state changes.
//
// Example:
//
//	b, err := registry.Wrap[User](reg, "user-card", card,
//	    boundary.WithOnRetry(refreshCache))
func Wrap[P any](r *Registry, name string, component boundary.Component[P],
	opts ...boundary.Option,
) (*boundary.Boundary[P], error) {
	all := make([]boundary.Option, 0, len(r.defaults)+len(opts)+4)
	all = append(all, r.defaults...)
	all = append(all, opts...)
	all = append(all, r.configOptions(name)...)
	all = append(all,
		boundary.WithName(name),
		boundary.WithOnStateChange(r.notify))

	b := boundary.Wrap[P](component, all...)

	if err := r.Register(b); err != nil {
		return nil, err
	}

	return b, nil
}

// configOptions translates the config entry for name, if any, into boundary
// options.
func (r *Registry) configOptions(name string) []boundary.Option {
	if r.config == nil {
		return nil
	}

	entry, ok := r.config.Boundary(name)
	if !ok {
		return nil
	}

	var opts []boundary.Option

	switch {
	case entry.Fallback != "":
		opts = append(opts, boundary.WithFallback(entry.Fallback))
	case entry.RetryHint != "":
		opts = append(opts, boundary.WithSurface(surface.DefaultWithHint(entry.RetryHint)))
	}

	if entry.Disabled {
		opts = append(opts, boundary.WithLatchDisabled())
	}

	return opts
}
