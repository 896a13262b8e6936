// boundary-demo renders a deliberately flaky component inside a boundary.
// Pick a failure mode, watch the fallback appear when the component breaks,
// and confirm the retry prompt to repair it.
//
// Set BOUNDARY_DEMO_CONFIG to a YAML file to override fallbacks per
// boundary, and OTEL_ENABLED=true to export traces and logs.
package main

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"

	"github.com/viewlabs/boundary"
	"github.com/viewlabs/boundary/async"
	"github.com/viewlabs/boundary/build"
	"github.com/viewlabs/boundary/cli"
	"github.com/viewlabs/boundary/envcfg"
	"github.com/viewlabs/boundary/logger"
	"github.com/viewlabs/boundary/registry"
	"github.com/viewlabs/boundary/shutdown"
	"github.com/viewlabs/boundary/surface"
	"github.com/viewlabs/boundary/telemetry"
)

const (
	modeError   = "error"
	modePanic   = "panic"
	modeHealthy = "healthy"

	renderCount = 4
	breakAt     = 2
)

var errCardUnavailable = errors.New("card data unavailable")

// buildJSON is populated at release time via
// -ldflags "-X main.buildJSON={...}".
var buildJSON string //nolint:gochecknoglobals

var cardStyle = lipgloss.NewStyle(). //nolint:gochecknoglobals
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#5A56E0")).
	Padding(0, 2)

// demoCard renders a small panel and fails on demand: once broken, renders
// error or panic depending on the chosen mode until a retry repairs it.
type demoCard struct {
	mode   string
	broken atomic.Bool
}

type cardProps struct {
	User   string
	Unread int
}

func (c *demoCard) Render(_ context.Context, props cardProps) (string, error) {
	if c.broken.Load() {
		if c.mode == modePanic {
			panic("card state corrupted")
		}

		return "", errCardUnavailable
	}

	body := fmt.Sprintf("inbox for %s\n%d unread messages", props.User, props.Unread)

	return cardStyle.Render(body), nil
}

func main() {
	ctx := shutdown.SetupHandler()

	logger.ConfigureLogging("boundary-demo")

	info, _ := build.Parse(buildJSON)
	logger.Get(ctx).Info("starting", "version", info.Version())

	otelConfig, err := telemetry.LoadConfigFromEnv(ctx)
	if err != nil {
		logger.Fatal("failed to load telemetry config", "error", err)
	}

	logHandler, err := telemetry.InitializeLogs(ctx, otelConfig)
	if err != nil {
		logger.Fatal("failed to initialize log export", "error", err)
	}

	if logHandler != nil {
		// Reconfigure so every log line is also exported.
		logger.ConfigureLogging("boundary-demo", logger.WithExtraHandler(logHandler))
	}

	if err := telemetry.Initialize(ctx, otelConfig); err != nil {
		logger.Fatal("failed to initialize tracing", "error", err)
	}

	shutdown.BeforeShutdown("telemetry", func() {
		if err := telemetry.Shutdown(ctx); err != nil {
			logger.Get(ctx).Warn("telemetry shutdown failed", "error", err)
		}
	})

	reg := newRegistry(ctx)

	reg.RegisterListener(registry.ListenerFunc(func(name string, from, to boundary.State) {
		logger.Get(ctx).Info("boundary state changed", "boundary", name, "from", from, "to", to)
	}))

	run(ctx, reg)

	logger.Get(ctx).Info("final registry state",
		"boundaries", reg.Names(),
		"states", reg.Snapshot(),
	)

	shutdown.Shutdown()
	<-ctx.Done()
}

// newRegistry builds the boundary registry, loading operator overrides from
// BOUNDARY_DEMO_CONFIG when set.
func newRegistry(ctx context.Context) *registry.Registry {
	var opts []registry.Option

	if path := envcfg.String("BOUNDARY_DEMO_CONFIG").ValueOrElse(""); path != "" {
		cfg, err := registry.LoadConfig(path)
		if err != nil {
			logger.Fatal("failed to load boundary config", "path", path, "error", err)
		}

		logger.Get(ctx).Info("loaded boundary config", "path", path)

		opts = append(opts, registry.WithConfig(cfg))
	}

	return registry.New(opts...)
}

func run(ctx context.Context, reg *registry.Registry) {
	header, err := registry.Wrap(reg, "header", boundary.Func[string](
		func(_ context.Context, title string) (string, error) {
			return lipgloss.NewStyle().Bold(true).Render(title), nil
		}))
	if err != nil {
		logger.Fatal("failed to wrap header", "error", err)
	}

	fmt.Println(header.Render(ctx, "boundary demo"))

	mode, err := cli.Select("Choose a failure mode", []string{modeError, modePanic, modeHealthy})
	if err != nil {
		logger.Get(ctx).Warn("no terminal available, using the error mode", "error", err)

		mode = modeError
	}

	card := &demoCard{mode: mode}

	wrapped, err := registry.Wrap(reg, "demo-card", card,
		boundary.WithSurface(surface.DefaultWithHint("confirm the retry prompt to re-render")),
		boundary.WithOnRetry(func(context.Context) {
			card.broken.Store(false)
		}),
	)
	if err != nil {
		logger.Fatal("failed to wrap demo card", "error", err)
	}

	for i := 1; i <= renderCount; i++ {
		if i == breakAt && mode != modeHealthy {
			card.broken.Store(true)
		}

		content, err := async.Render(ctx, wrapped, cardProps{User: "ada", Unread: i}).Wait(ctx)
		if err != nil {
			logger.Get(ctx).Warn("render interrupted", "error", err)

			return
		}

		fmt.Println(content)

		if wrapped.State() == boundary.Failed {
			retry, err := cli.PromptConfirm("Retry render")
			if err != nil || !retry {
				continue
			}

			wrapped.Retry(ctx)
		}
	}
}
