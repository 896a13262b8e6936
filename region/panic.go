package region

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// ErrPanic marks failures that began life as panics. errors.Is(err, ErrPanic)
// distinguishes a recovered panic from an error the work returned.
var ErrPanic = errors.New("recovered panic")

// PanicError wraps a recovered panic value together with the goroutine stack
// captured at the recovery point.
type PanicError struct {
	Value any
	Stack []byte
}

// Error renders the panic value. The stack is not part of the message; it
// travels alongside so loggers can attach it as its own field.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes ErrPanic and, when the panic value itself was an error,
// that error too, so errors.Is and errors.As see both.
func (e *PanicError) Unwrap() []error {
	if cause, ok := e.Value.(error); ok {
		return []error{ErrPanic, cause}
	}

	return []error{ErrPanic}
}

// Catch runs fn, converting a panic into a *PanicError carrying the panic
// value and stack. A nil return means fn finished without error or panic.
func Catch(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{
				Value: r,
				Stack: debug.Stack(),
			}
		}
	}()

	return fn()
}
