package telemetry

import (
	"os"
	"testing"

	"github.com/viewlabs/boundary/stage"
)

func TestLoadConfigFromEnv_KubernetesDetection(t *testing.T) {
	// Store original environment
	originalHost := os.Getenv("KUBERNETES_SERVICE_HOST")
	originalEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT")
	originalLogsEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT")

	// Clean up after test
	defer func() {
		restoreEnv("KUBERNETES_SERVICE_HOST", originalHost)
		restoreEnv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", originalEndpoint)
		restoreEnv("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT", originalLogsEndpoint)
	}()

	const collectorEndpoint = "http://opentelemetry-collector.opentelemetry.svc.cluster.local:4318"

	tests := []struct {
		name                 string
		kubernetesHost       string
		customEndpoint       string
		expectedEndpoint     string
		expectedLogsEndpoint string
	}{
		{
			name:                 "Kubernetes environment detected",
			kubernetesHost:       "10.0.0.1",
			expectedEndpoint:     collectorEndpoint,
			expectedLogsEndpoint: collectorEndpoint,
		},
		{
			name:                 "Non-Kubernetes environment",
			kubernetesHost:       "",
			expectedEndpoint:     "",
			expectedLogsEndpoint: "",
		},
		{
			name:                 "Custom traces endpoint overrides the in-cluster default",
			kubernetesHost:       "10.0.0.1",
			customEndpoint:       "http://custom-collector:4318",
			expectedEndpoint:     "http://custom-collector:4318",
			expectedLogsEndpoint: collectorEndpoint,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Set up environment
			_ = os.Unsetenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT")
			_ = os.Unsetenv("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT")

			if test.kubernetesHost != "" {
				t.Setenv("KUBERNETES_SERVICE_HOST", test.kubernetesHost)
			} else {
				_ = os.Unsetenv("KUBERNETES_SERVICE_HOST")
			}

			if test.customEndpoint != "" {
				t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", test.customEndpoint)
			}

			// Load config
			config, err := LoadConfigFromEnv(t.Context())
			if err != nil {
				t.Fatalf("Failed to load config: %v", err)
			}

			// Verify endpoints
			if config.Endpoint != test.expectedEndpoint {
				t.Errorf("Expected endpoint %s, got %s", test.expectedEndpoint, config.Endpoint)
			}

			if config.LogsEndpoint != test.expectedLogsEndpoint {
				t.Errorf("Expected logs endpoint %s, got %s", test.expectedLogsEndpoint, config.LogsEndpoint)
			}
		})
	}
}

func TestLoadConfigFromEnv_DefaultValues(t *testing.T) { //nolint:paralleltest
	// Store and clean original environment
	originalEnabled := os.Getenv("OTEL_ENABLED")
	originalServiceName := os.Getenv("OTEL_SERVICE_NAME")
	originalServiceVersion := os.Getenv("OTEL_SERVICE_VERSION")
	originalHost := os.Getenv("KUBERNETES_SERVICE_HOST")

	defer func() {
		restoreEnv("OTEL_ENABLED", originalEnabled)
		restoreEnv("OTEL_SERVICE_NAME", originalServiceName)
		restoreEnv("OTEL_SERVICE_VERSION", originalServiceVersion)
		restoreEnv("KUBERNETES_SERVICE_HOST", originalHost)
	}()

	// Clear environment
	_ = os.Unsetenv("OTEL_ENABLED")
	_ = os.Unsetenv("OTEL_SERVICE_NAME")
	_ = os.Unsetenv("OTEL_SERVICE_VERSION")
	_ = os.Unsetenv("KUBERNETES_SERVICE_HOST")

	config, err := LoadConfigFromEnv(t.Context())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Test runs are not a deployed stage, so export defaults off.
	if config.Enabled != false {
		t.Errorf("Expected Enabled to be false, got %t", config.Enabled)
	}

	if config.ServiceVersion != defaultServiceVersion {
		t.Errorf("Expected ServiceVersion %s, got %s", defaultServiceVersion, config.ServiceVersion)
	}

	if config.Environment != string(stage.Test) {
		t.Errorf("Expected Environment 'test', got %s", config.Environment)
	}

	if config.Timeout != defaultTimeout {
		t.Errorf("Expected Timeout %v, got %v", defaultTimeout, config.Timeout)
	}
}

func TestLoadConfigFromEnv_StageDefaults(t *testing.T) { //nolint:paralleltest
	originalEnabled := os.Getenv("OTEL_ENABLED")

	defer func() {
		restoreEnv("OTEL_ENABLED", originalEnabled)
	}()

	_ = os.Unsetenv("OTEL_ENABLED")

	// Deployed stages default export on.
	config, err := LoadConfigFromEnv(stage.WithStage(t.Context(), stage.Prod))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if !config.Enabled {
		t.Error("Expected Enabled to default to true on a deployed stage")
	}

	if config.Environment != string(stage.Prod) {
		t.Errorf("Expected Environment 'prod', got %s", config.Environment)
	}

	// An explicit OTEL_ENABLED=false wins over the stage default.
	t.Setenv("OTEL_ENABLED", "false")

	config, err = LoadConfigFromEnv(stage.WithStage(t.Context(), stage.Prod))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Enabled {
		t.Error("Expected OTEL_ENABLED=false to override the stage default")
	}
}

func TestInitialize_Disabled(t *testing.T) { //nolint:paralleltest
	config := &Config{Enabled: false}

	if err := Initialize(t.Context(), config); err != nil {
		t.Fatalf("Initialize with disabled config should not fail: %v", err)
	}

	if tracerProvider != nil {
		t.Error("Expected no tracer provider when telemetry is disabled")
	}
}

func TestInitializeLogs_Disabled(t *testing.T) { //nolint:paralleltest
	config := &Config{Enabled: false}

	handler, err := InitializeLogs(t.Context(), config)
	if err != nil {
		t.Fatalf("InitializeLogs with disabled config should not fail: %v", err)
	}

	if handler != nil {
		t.Error("Expected no handler when telemetry is disabled")
	}
}

func TestInitializeLogs_NoEndpoint(t *testing.T) { //nolint:paralleltest
	config := &Config{Enabled: true, LogsEndpoint: ""}

	handler, err := InitializeLogs(t.Context(), config)
	if err != nil {
		t.Fatalf("InitializeLogs without an endpoint should not fail: %v", err)
	}

	if handler != nil {
		t.Error("Expected no handler when no logs endpoint is configured")
	}
}

func restoreEnv(key, value string) {
	if value == "" {
		_ = os.Unsetenv(key)
	} else {
		_ = os.Setenv(key, value)
	}
}
