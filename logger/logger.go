// Package logger configures slog for the module and hands out loggers that
// carry context-derived attributes (component, boundary name, caller values).
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viewlabs/boundary/envcfg"
	"github.com/viewlabs/boundary/lazy"
	"github.com/viewlabs/boundary/shutdown"
)

// component names the running application in every log line. Stored in an
// atomic.Value so configuration and reads can race safely.
var component atomic.Value //nolint:gochecknoglobals

// configMutex serializes ConfigureLoggingWithOptions; the function mutates
// global state (slog.SetDefault and log.Default).
var configMutex sync.Mutex //nolint:gochecknoglobals

// Unexported key type prevents collisions with other packages' context keys.
type contextKey string

// Fatal logs an error message, runs shutdown hooks, and exits the process.
func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)

	shutdown.Shutdown()

	time.Sleep(time.Second)

	os.Exit(1)
}

// Options is used to configure logging.
type Options struct {
	Component     string
	JSON          bool
	MinLevel      slog.Level
	LegacyLevel   slog.Level
	Output        io.Writer
	ExtraHandlers []slog.Handler
}

// ConfigureLoggingWithOptions configures logging for the application and
// returns the default logger. Thread-safe, but concurrent calls serialize.
func ConfigureLoggingWithOptions(opts Options) *slog.Logger {
	configMutex.Lock()
	defer configMutex.Unlock()

	var handler slog.Handler

	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, &slog.HandlerOptions{
			Level: opts.MinLevel,
		})
	} else {
		handler = slog.NewTextHandler(opts.Output, &slog.HandlerOptions{
			Level: opts.MinLevel,
		})
	}

	if len(opts.ExtraHandlers) > 0 {
		handler = &multiHandler{
			handlers: append([]slog.Handler{handler}, opts.ExtraHandlers...),
		}
	}

	// Surface attributes attached via AnnotateError in the final output.
	// Outermost, so annotations reach every handler in the fan-out.
	handler = &annotatedErrorHandler{inner: handler}

	logger := slog.New(handler)

	slog.SetDefault(logger)

	// Redirect the legacy log package (third-party code may still use it).
	// It has no levels of its own, so it logs at LegacyLevel.
	def := log.Default()
	*def = *slog.NewLogLogger(handler, opts.LegacyLevel)

	component.Store(opts.Component)

	return logger
}

// Option is a functional option for configuring logging via ConfigureLogging.
type Option func(*Options)

// WithExtraHandler registers an additional handler that receives a copy of
// every log record alongside the console handler. Used to attach the
// OpenTelemetry log bridge. Nil handlers are ignored.
func WithExtraHandler(handler slog.Handler) Option {
	return func(o *Options) {
		if handler != nil {
			o.ExtraHandlers = append(o.ExtraHandlers, handler)
		}
	}
}

// ErrInvalidLogOutput is returned when an invalid log output destination is specified.
var ErrInvalidLogOutput = errors.New("invalid log output")

// ConfigureLogging configures logging from the environment (LOG_JSON,
// LOG_LEVEL, LEGACY_LOG_LEVEL, LOG_OUTPUT) and returns the default logger.
func ConfigureLogging(app string, opts ...Option) *slog.Logger {
	logJSON := envcfg.Bool("LOG_JSON", envcfg.Default(false)).ValueOrFatal()

	minLevel := envcfg.SlogLevel("LOG_LEVEL", envcfg.Default(slog.LevelInfo)).ValueOrFatal()

	legacyLevel := envcfg.SlogLevel("LEGACY_LOG_LEVEL", envcfg.Default(slog.LevelInfo)).ValueOrFatal()

	output := envcfg.Map(envcfg.String("LOG_OUTPUT"), func(outName string) (*os.File, error) {
		switch outName {
		case "stdout":
			return os.Stdout, nil
		case "stderr":
			return os.Stderr, nil
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidLogOutput, outName)
		}
	}).WithDefault(os.Stdout).ValueOrFatal()

	options := Options{
		Component:   app,
		JSON:        logJSON,
		MinLevel:    minLevel,
		LegacyLevel: legacyLevel,
		Output:      output,
	}

	for _, o := range opts {
		o(&options)
	}

	return ConfigureLoggingWithOptions(options)
}

// WithLogger stores a logger in the context. Get uses it instead of the
// process default, which lets tests capture a package's log output (for
// example with slogt) without touching global state.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("logger"), logger)
}

func getOverrideLogger(ctx context.Context) (*slog.Logger, bool) {
	if ctx == nil {
		return nil, false
	}

	val := ctx.Value(contextKey("logger"))
	if val == nil {
		return nil, false
	}

	logger, ok := val.(*slog.Logger)

	return logger, ok && logger != nil
}

// WithMuted adds a muted flag to the context. When muted, loggers returned by
// Get discard everything. Useful for high-frequency paths that would
// otherwise flood the output.
func WithMuted(ctx context.Context, muted bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("mute"), muted)
}

func isMuted(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	val := ctx.Value(contextKey("mute"))
	if val == nil {
		return false
	}

	muted, ok := val.(bool)

	return ok && muted
}

// WithBoundary records the name of the boundary doing the work, so every log
// line emitted under this context names its origin.
func WithBoundary(ctx context.Context, name string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("boundary"), name)
}

// GetBoundary returns the boundary name from the context, if set.
func GetBoundary(ctx context.Context) (string, bool) { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	name := ctx.Value(contextKey("boundary"))
	if name != nil {
		val, ok := name.(string)
		if ok {
			return val, true
		}
	}

	return "", false
}

// WithComponent overrides the component name for this context. The default
// component is set by ConfigureLogging.
func WithComponent(ctx context.Context, name string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("component"), name)
}

// GetComponent returns the component name: the context override when present,
// the configured default otherwise.
func GetComponent(ctx context.Context) string { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	sub := ctx.Value(contextKey("component"))
	if sub != nil {
		val, ok := sub.(string)
		if ok {
			return val
		}
	}

	if defaultComponent := component.Load(); defaultComponent != nil {
		if val, ok := defaultComponent.(string); ok {
			return val
		}
	}

	return ""
}

// hostname holds the machine name (the pod name under k8s).
// nolint:gochecknoglobals
var hostname = lazy.New[string](func() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}

	return h
})

// GetHostname returns the host name this process runs on.
func GetHostname() string {
	return hostname.Get()
}

// getRealContext extracts the first non-nil context from a variadic list,
// falling back to context.Background().
func getRealContext(ctx ...context.Context) context.Context {
	var realCtx context.Context

	for _, c := range ctx {
		if c != nil {
			realCtx = c //nolint:fatcontext

			break
		}
	}

	if realCtx == nil {
		realCtx = context.Background()
	}

	return realCtx
}

// nullHandler discards all log output. It backs the muted logging feature.
type nullHandler struct{}

func (n *nullHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (n *nullHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (n *nullHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return n
}

func (n *nullHandler) WithGroup(_ string) slog.Handler {
	return n
}

// nullLogger is returned by Get for muted contexts: callable, but silent.
var nullLogger = slog.New(&nullHandler{})

// getBaseLogger returns a logger with the component and host already set.
func getBaseLogger(ctx context.Context) *slog.Logger {
	if isMuted(ctx) {
		return nullLogger
	}

	logger, ok := getOverrideLogger(ctx)
	if !ok {
		logger = slog.Default()
	}

	logger = logger.With(
		"component", GetComponent(ctx),
		"host", hostname.Get())

	vals := getValues(ctx)
	if vals != nil {
		logger = logger.With(vals...)
	}

	return logger
}

// Get returns a logger. When a context is provided, attributes stored in it
// (boundary name, values added via With) are attached automatically.
//
//nolint:contextcheck
func Get(ctx ...context.Context) *slog.Logger {
	realCtx := getRealContext(ctx...)
	logger := getBaseLogger(realCtx)

	name, ok := GetBoundary(realCtx)
	if ok {
		logger = logger.With("boundary", name)
	}

	return logger
}

// With returns a new context with the given values added. Loggers obtained
// from Get with this context include them automatically.
func With(ctx context.Context, values ...any) context.Context {
	if len(values) == 0 && ctx != nil {
		// Corner case, don't bother creating a new context.
		return ctx
	}

	vals := append(getValues(ctx), values...)

	return context.WithValue(ctx, contextKey("loggerValues"), vals)
}

// getValues retrieves logger values added via With, or nil.
func getValues(ctx context.Context) []any { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	vals := ctx.Value(contextKey("loggerValues"))
	if vals != nil {
		val, ok := vals.([]any)
		if ok {
			return val
		}

		return nil
	}

	return nil
}
