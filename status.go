package boundary

import "context"

// Status is a read-only, props-agnostic view of a boundary. It is what
// registries and dashboards hold when the props type parameter is not known
// to them.
type Status interface {
	// Name returns the boundary's name.
	Name() string

	// State returns Normal or Failed.
	State() State

	// CaughtError returns the latched failure, if any.
	CaughtError() (error, bool)

	// Retry invokes the retry callback, then resets. Reports whether a
	// latched failure was cleared.
	Retry(ctx context.Context) bool

	// Reset clears a latched failure without the retry callback.
	Reset(ctx context.Context) bool
}
