package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/viewlabs/boundary/logger"
)

var loggerProvider *sdklog.LoggerProvider

// InitializeLogs sets up OTLP log export and returns a slog handler bridged
// to it. Wire the handler into logging via logger.WithExtraHandler so every
// log line is both printed and exported. Returns a nil handler when log
// export is disabled or no endpoint is configured.
func InitializeLogs(ctx context.Context, config *Config) (slog.Handler, error) {
	if !config.Enabled {
		logger.Get(ctx).Info("OpenTelemetry log export is disabled")

		return nil, nil
	}

	if config.LogsEndpoint == "" {
		logger.Get(ctx).Warn("OpenTelemetry logs endpoint not configured, log export will be disabled")

		return nil, nil
	}

	res, err := newResource(ctx, config)
	if err != nil {
		return nil, err
	}

	exporter, err := otlploghttp.New(ctx,
		otlploghttp.WithEndpointURL(config.LogsEndpoint),
		otlploghttp.WithTimeout(config.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
	}

	loggerProvider = sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(res),
	)

	global.SetLoggerProvider(loggerProvider)

	logger.Get(ctx).Info("OpenTelemetry log export initialized",
		"service", config.ServiceName,
		"endpoint", config.LogsEndpoint,
	)

	return otelslog.NewHandler(config.ServiceName,
		otelslog.WithLoggerProvider(loggerProvider)), nil
}
