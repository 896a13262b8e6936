// Package errors holds error values and helpers shared across the module.
package errors

import "errors"

var (
	// ErrInvalidConfig indicates a configuration value that failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrWrongType indicates a value of an unexpected dynamic type.
	ErrWrongType = errors.New("wrong type")
)

// Collection accumulates multiple errors and reports them as one. It is not
// safe for concurrent use; collect within a single goroutine and call
// GetError at the end.
type Collection struct {
	errors []error
}

// Add appends an error to the collection. Nil errors are ignored.
func (c *Collection) Add(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

// Clear resets the collection to empty.
func (c *Collection) Clear() {
	c.errors = nil
}

// HasError returns true if at least one error has been collected.
func (c *Collection) HasError() bool {
	return len(c.errors) > 0
}

// GetError returns nil for an empty collection, the sole error when exactly
// one was collected, and an errors.Join of all of them otherwise.
func (c *Collection) GetError() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	default:
		return errors.Join(c.errors...)
	}
}
