package logger

import (
	"bytes"
	"encoding/json"
	"log"
	"log/slog"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) { //nolint:paralleltest
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Component: "test",
		JSON:      true,
		Output:    &buf,
	})

	Get().Info("plain")

	ctx := WithBoundary(t.Context(), "billing-card")
	Get(ctx).Info("named")

	ctx = With(t.Context(), "attempt", 3)
	Get(ctx).Info("with values")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)

	var first map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "test", first["component"])
	assert.NotEmpty(t, first["host"])

	var second map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.Equal(t, "billing-card", second["boundary"])

	var third map[string]any
	require.NoError(t, json.Unmarshal(lines[2], &third))
	assert.InEpsilon(t, 3.0, third["attempt"], 0.001)
}

func TestComponentOverride(t *testing.T) { //nolint:paralleltest
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Component: "default-component",
		JSON:      true,
		Output:    &buf,
	})

	ctx := WithComponent(t.Context(), "overridden")
	Get(ctx).Info("test")

	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, "overridden", record["component"])
}

func TestMuted(t *testing.T) { //nolint:paralleltest
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Component: "test",
		JSON:      true,
		Output:    &buf,
	})

	ctx := WithMuted(t.Context(), true)
	Get(ctx).Error("should be discarded")

	assert.Empty(t, buf.Bytes())

	ctx = WithMuted(ctx, false)
	Get(ctx).Info("should appear")

	assert.NotEmpty(t, buf.Bytes())
}

func TestWithLoggerOverride(t *testing.T) {
	t.Parallel()

	// The context-carried logger keeps test output out of the global default.
	ctx := WithLogger(t.Context(), slogt.New(t))

	Get(ctx).Info("routed to the test log")

	name, ok := GetBoundary(ctx)
	assert.False(t, ok)
	assert.Empty(t, name)
}

func TestAnnotateError(t *testing.T) { //nolint:paralleltest
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Component: "test",
		JSON:      true,
		Output:    &buf,
	})

	err := AnnotateError(assert.AnError, "region", "payments", "attempt", 2)
	require.Error(t, err)
	require.ErrorIs(t, err, assert.AnError)

	Get().Error("operation failed", "error", err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, "payments", record["region"])
	assert.InEpsilon(t, 2.0, record["attempt"], 0.001)
	assert.Equal(t, assert.AnError.Error(), record["error"])
}

func TestAnnotateError_Nil(t *testing.T) {
	t.Parallel()

	require.NoError(t, AnnotateError(nil, "ignored", true))
}

func TestLegacy(t *testing.T) { //nolint:paralleltest
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Component:   "test",
		JSON:        true,
		MinLevel:    slog.LevelDebug,
		LegacyLevel: slog.LevelInfo,
		Output:      &buf,
	})

	// The legacy log package should come out as JSON now.
	log.Println("legacy line")

	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Contains(t, record["msg"], "legacy line")
}

func TestExtraHandler(t *testing.T) { //nolint:paralleltest
	var console, extra bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Component:     "test",
		JSON:          true,
		Output:        &console,
		ExtraHandlers: []slog.Handler{slog.NewJSONHandler(&extra, nil)},
	})

	Get().Info("fan out", "key", "value")

	// Both handlers see the record.
	var fromConsole map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(console.Bytes()), &fromConsole))
	assert.Equal(t, "fan out", fromConsole["msg"])

	var fromExtra map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(extra.Bytes()), &fromExtra))
	assert.Equal(t, "fan out", fromExtra["msg"])
	assert.Equal(t, "value", fromExtra["key"])
}

func TestExtraHandler_Level(t *testing.T) { //nolint:paralleltest
	var console, extra bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Component: "test",
		JSON:      true,
		MinLevel:  slog.LevelInfo,
		Output:    &console,
		ExtraHandlers: []slog.Handler{slog.NewJSONHandler(&extra, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})},
	})

	// Below the console level but within the extra handler's.
	Get().Debug("debug only")

	assert.Empty(t, console.Bytes())
	assert.NotEmpty(t, extra.Bytes())
}

func TestWithExtraHandler_Nil(t *testing.T) {
	t.Parallel()

	var opts Options

	WithExtraHandler(nil)(&opts)

	assert.Empty(t, opts.ExtraHandlers)
}
