// Package stage detects the deployment environment. The running stage (local,
// test, dev, staging, prod) comes from the RUNNING_ENV environment variable,
// with test-flag detection as a fallback for unit test runs, and can be
// overridden per-context via WithStage. Other packages use it to pick
// environment-appropriate defaults, like disabling telemetry export outside
// deployed environments.
package stage

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/viewlabs/boundary/contexts"
	"github.com/viewlabs/boundary/envcfg"
	"github.com/viewlabs/boundary/lazy"
	"github.com/viewlabs/boundary/logger"
)

// Stage represents a deployment environment.
type Stage string

// ErrUnrecognizedStage is returned when RUNNING_ENV contains an invalid stage value.
var ErrUnrecognizedStage = errors.New("unrecognized stage")

const (
	// Unknown indicates the stage could not be determined.
	Unknown Stage = "unknown"
	// Local indicates the code is running on a developer's machine.
	Local Stage = "local"
	// Test indicates the code is running in unit tests.
	Test Stage = "test"
	// Dev indicates the development environment.
	Dev Stage = "dev"
	// Staging indicates the staging environment.
	Staging Stage = "staging"
	// Prod indicates the production environment.
	Prod Stage = "prod"
)

type contextKey string

const stageKey contextKey = "stage"

// WithStage overrides the stage for everything using this context. Mostly
// useful in tests, where the process-wide stage is always Test.
func WithStage(ctx context.Context, s Stage) context.Context {
	return contexts.WithValue(ctx, stageKey, s)
}

// Current returns the running environment. A context override (WithStage)
// wins when present; otherwise the stage is determined once from the
// environment and cached.
func Current(ctx ...context.Context) Stage {
	for _, c := range ctx {
		if c == nil {
			continue
		}

		if s, ok := contexts.GetValue[contextKey, Stage](c, stageKey); ok {
			return s
		}
	}

	return runningStage.Get()
}

// IsLocal returns true if the current stage is Local.
func IsLocal(ctx ...context.Context) bool {
	return Current(ctx...) == Local
}

// IsDev returns true if the current stage is Dev.
func IsDev(ctx ...context.Context) bool {
	return Current(ctx...) == Dev
}

// IsStaging returns true if the current stage is Staging.
func IsStaging(ctx ...context.Context) bool {
	return Current(ctx...) == Staging
}

// IsProd returns true if the current stage is Prod.
func IsProd(ctx ...context.Context) bool {
	return Current(ctx...) == Prod
}

// IsTest returns true if the current stage is Test.
func IsTest(ctx ...context.Context) bool {
	return Current(ctx...) == Test
}

// IsUnknown returns true if the current stage is Unknown.
func IsUnknown(ctx ...context.Context) bool {
	return Current(ctx...) == Unknown
}

// IsDeployed returns true for environments running on shared infrastructure
// (dev, staging, prod), where exporters and JSON logging should default on.
func IsDeployed(ctx ...context.Context) bool {
	switch Current(ctx...) {
	case Dev, Staging, Prod:
		return true
	case Local, Test, Unknown:
		return false
	default:
		return false
	}
}

// runningStage lazily determines and caches the current stage.
var runningStage = lazy.New[Stage](func() Stage { //nolint:gochecknoglobals
	value := getRunningStage()

	if value != Unknown {
		logger.Get().Info("Configured stage", "stage", value)
	}

	return value
})

// getRunningStage reads RUNNING_ENV. If the variable is unset or invalid, it
// falls back to Test when running under `go test`, and Unknown otherwise.
func getRunningStage() Stage {
	reader := envcfg.String("RUNNING_ENV")

	env := envcfg.Map[string, Stage](reader, func(s string) (Stage, error) {
		switch Stage(s) {
		case Local, Test, Dev, Staging, Prod:
			return Stage(s), nil
		case Unknown:
			fallthrough
		default:
			logger.Get().Warn("unknown stage", "value", s)

			return "", fmt.Errorf("%w: %s", ErrUnrecognizedStage, s)
		}
	})

	// Unit tests usually don't set RUNNING_ENV. The test.v flag only exists
	// inside a `go test` binary.
	if flag.Lookup("test.v") != nil {
		return env.ValueOrElse(Test)
	}

	return env.ValueOrElse(Unknown)
}
