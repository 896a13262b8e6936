package boundary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/viewlabs/boundary/logger"
)

// TestRenderMetrics verifies that render outcomes are recorded per boundary.
// Note: Cannot use t.Parallel() because this test modifies global Prometheus metrics.
//
//nolint:paralleltest // Test modifies global Prometheus metric state
func TestRenderMetrics(t *testing.T) {
	rendersTotal.Reset()
	tripsTotal.Reset()
	resetsTotal.Reset()

	ctx := logger.WithLogger(t.Context(), slogt.New(t))

	healthy := Wrap[int](Func[int](func(context.Context, int) (string, error) {
		return "ok", nil
	}), WithName("metrics-probe"))

	healthy.Render(ctx, 1)

	assert.Equal(t, 1, testutil.CollectAndCount(rendersTotal))

	failing := Wrap[int](Func[int](func(context.Context, int) (string, error) {
		return "", errors.New("boom") //nolint:err113 // Test error
	}), WithName("metrics-probe-failing"), WithFallback("gone"))

	failing.Render(ctx, 1) // Latches: outcome caught.
	failing.Render(ctx, 1) // Already failed: outcome fallback.

	assert.Equal(t, 3, testutil.CollectAndCount(rendersTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(tripsTotal))

	failing.Retry(ctx)

	assert.Equal(t, 1, testutil.CollectAndCount(resetsTotal))
}

func TestSanitizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", "unknown"},
		{"short", "user-card", "user-card"},
		{"at limit", strings.Repeat("a", maxLabelLength), strings.Repeat("a", maxLabelLength)},
		{"generated", "boundary-7cf1a2aa-6a3b-4a80-9f5e-0f9c6f9f8d2e", "8-char-hash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := sanitizeName(tt.input)
			if tt.expected == "8-char-hash" {
				assert.Len(t, result, 8)
			} else {
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}
