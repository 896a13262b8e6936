package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viewlabs/boundary"
	"github.com/viewlabs/boundary/logger"
)

func TestSubmit(t *testing.T) {
	t.Parallel()

	var counter atomic.Int32

	task := Submit(func() {
		counter.Add(1)
	})

	require.NoError(t, task.Wait())
	assert.Equal(t, int32(1), counter.Load())
}

func TestSubmitWithPanic(t *testing.T) {
	t.Parallel()

	task := Submit(func() {
		panic("test panic")
	})

	// The pool recovers the panic and surfaces it through the task.
	err := task.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test panic")
}

func TestRender(t *testing.T) {
	t.Parallel()

	b := boundary.Wrap[string](boundary.Func[string](func(_ context.Context, name string) (string, error) {
		return "hello, " + name, nil
	}), boundary.WithName("greeter"))

	ticket := Render(t.Context(), b, "ada")

	content, err := ticket.Wait(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "hello, ada", content)
	assert.True(t, ticket.Done())
}

func TestRender_FailureYieldsFallback(t *testing.T) {
	t.Parallel()

	ctx := logger.WithLogger(t.Context(), slogt.New(t))

	b := boundary.Wrap[int](boundary.Func[int](func(context.Context, int) (string, error) {
		return "", errors.New("boom") //nolint:err113 // Test error
	}), boundary.WithFallback("gone"))

	content, err := Render(ctx, b, 1).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "gone", content)
	assert.Equal(t, boundary.Failed, b.State())
}

func TestRender_ManyConcurrent(t *testing.T) {
	t.Parallel()

	var counter atomic.Int32

	b := boundary.Wrap[int](boundary.Func[int](func(context.Context, int) (string, error) {
		counter.Add(1)

		return "ok", nil
	}), boundary.WithName("busy"))

	const renders = 50

	tickets := make([]*Ticket, renders)
	for i := range renders {
		tickets[i] = Render(t.Context(), b, i)
	}

	for _, ticket := range tickets {
		content, err := ticket.Wait(t.Context())
		require.NoError(t, err)
		assert.Equal(t, "ok", content)
	}

	assert.Equal(t, int32(renders), counter.Load())
}

func TestWait_ContextCanceled(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})

	b := boundary.Wrap[int](boundary.Func[int](func(context.Context, int) (string, error) {
		<-release

		return "late", nil
	}), boundary.WithName("slow"))

	ticket := Render(t.Context(), b, 1)

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	_, err := ticket.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ticket.Done())

	// The render is still in flight and finishes on its own.
	close(release)

	content, err := ticket.Wait(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "late", content)
}

func TestWait_NilContext(t *testing.T) {
	t.Parallel()

	b := boundary.Wrap[int](boundary.Func[int](func(context.Context, int) (string, error) {
		return "ok", nil
	}), boundary.WithName("plain"))

	content, err := Render(t.Context(), b, 1).Wait(nil) //nolint:staticcheck // Testing nil context behavior
	require.NoError(t, err)
	assert.Equal(t, "ok", content)
}
