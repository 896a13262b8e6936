package shutdown

import (
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetState clears the package globals between tests. The tests in this file
// cannot run in parallel for the same reason.
func resetState() {
	mut.Lock()
	hooks = nil
	mut.Unlock()

	channel = nil
}

func TestBeforeShutdown(t *testing.T) {
	resetState()

	var called atomic.Int32

	BeforeShutdown("first", func() {
		called.Add(1)
	})

	BeforeShutdown("second", func() {
		called.Add(10)
	})

	mut.Lock()
	assert.Len(t, hooks, 2)
	mut.Unlock()

	cleanup()

	assert.Equal(t, int32(11), called.Load())

	// Hooks only run once; cleanup drops them.
	mut.Lock()
	assert.Nil(t, hooks)
	mut.Unlock()
}

func TestSetupHandler(t *testing.T) {
	resetState()

	ctx := SetupHandler()

	select {
	case <-ctx.Done():
		t.Fatal("context should not be canceled before a signal arrives")
	default:
	}

	require.NotNil(t, channel)

	var hookCalled atomic.Bool

	BeforeShutdown("flag", func() {
		hookCalled.Store(true)
	})

	channel <- syscall.SIGTERM

	select {
	case <-ctx.Done():
	case <-time.After(1 * time.Second):
		t.Fatal("context was not canceled after signal")
	}

	assert.True(t, hookCalled.Load())
	assert.Nil(t, channel)
}

func TestSetupHandlerSIGINT(t *testing.T) {
	resetState()

	ctx := SetupHandler()

	var hookCalled atomic.Bool

	BeforeShutdown("flag", func() {
		hookCalled.Store(true)
	})

	channel <- syscall.SIGINT

	select {
	case <-ctx.Done():
	case <-time.After(1 * time.Second):
		t.Fatal("context was not canceled after SIGINT")
	}

	assert.True(t, hookCalled.Load())
}

func TestShutdown(t *testing.T) {
	resetState()

	ctx := SetupHandler()

	var hookCalled atomic.Bool

	BeforeShutdown("flag", func() {
		hookCalled.Store(true)
	})

	Shutdown()

	select {
	case <-ctx.Done():
	case <-time.After(1 * time.Second):
		t.Fatal("context was not canceled after Shutdown()")
	}

	assert.True(t, hookCalled.Load())
	assert.Nil(t, channel)
}

func TestShutdownWithoutSetup(t *testing.T) {
	resetState()

	assert.NotPanics(t, func() {
		Shutdown()
	})
}

func TestHooksRunInRegistrationOrder(t *testing.T) {
	resetState()

	var order []int

	for i := 1; i <= 3; i++ {
		BeforeShutdown("ordered", func() {
			order = append(order, i)
		})
	}

	// cleanup runs the hooks on this goroutine, so a plain slice is fine.
	cleanup()

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestContextCanceledAfterHooks(t *testing.T) {
	resetState()

	ctx := SetupHandler()

	var canceledDuringHook atomic.Bool

	BeforeShutdown("probe", func() {
		select {
		case <-ctx.Done():
			canceledDuringHook.Store(true)
		default:
		}
	})

	Shutdown()

	<-ctx.Done()

	// Hooks see a live context; cancellation comes after they finish.
	assert.False(t, canceledDuringHook.Load())
}

func TestConcurrentBeforeShutdown(t *testing.T) {
	resetState()

	const goroutines = 100

	done := make(chan struct{}, goroutines)

	for range goroutines {
		go func() {
			BeforeShutdown("concurrent", func() {})
			done <- struct{}{}
		}()
	}

	for range goroutines {
		<-done
	}

	mut.Lock()
	assert.Len(t, hooks, goroutines)
	mut.Unlock()
}
