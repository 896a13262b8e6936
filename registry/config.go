package registry

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/viewlabs/boundary/errors"
	"gopkg.in/yaml.v3"
)

// ConfigLoader is an interface for loading configurations by name.
// Applications can implement this to provide embedded or custom config loading.
type ConfigLoader interface {
	LoadByName(name string) ([]byte, error)
	ListAvailable() []string
}

// defaultConfigLoader is the global config loader used by LoadConfig.
// Applications can set this to provide embedded configs.
var defaultConfigLoader ConfigLoader

// SetConfigLoader sets the default config loader for name-based loading.
func SetConfigLoader(loader ConfigLoader) {
	defaultConfigLoader = loader
}

// Config defines per-boundary configuration, usually loaded from YAML:
//
//	boundaries:
//	  - name: user-card
//	    fallback: "user details are unavailable"
//	  - name: inbox
//	    retryHint: "press r to retry"
//	  - name: debug-panel
//	    disabled: true
type Config struct {
	Boundaries []BoundaryConfig `json:"boundaries" yaml:"boundaries"`
}

// BoundaryConfig is one boundary's entry. Fallback replaces the surface with
// static content; retryHint keeps the default surface but changes its hint
// line; disabled turns the latch off. Fallback and retryHint are mutually
// exclusive.
type BoundaryConfig struct {
	Name      string `json:"name"      yaml:"name"`
	Fallback  string `json:"fallback"  yaml:"fallback"`
	RetryHint string `json:"retryHint" yaml:"retryHint"`
	Disabled  bool   `json:"disabled"  yaml:"disabled"`
}

// Boundary returns the entry for name, if any.
func (c *Config) Boundary(name string) (BoundaryConfig, bool) {
	for _, entry := range c.Boundaries {
		if entry.Name == name {
			return entry, true
		}
	}

	return BoundaryConfig{}, false
}

// LoadConfig loads boundary configuration by path or name.
// Supports two modes:
//   - Path mode: pass a file path (containing '/', '\', or ending in
//     '.yaml'/'.yml') to load from the filesystem.
//     Example: LoadConfig("config/boundaries.yaml")
//   - Name mode: pass a bare name to load via the registered ConfigLoader.
//     Example: LoadConfig("production")
//
// For name mode to work, you must call SetConfigLoader() first.
func LoadConfig(pathOrName string) (*Config, error) {
	isPath := strings.Contains(pathOrName, "/") ||
		strings.Contains(pathOrName, `\`) ||
		strings.HasSuffix(strings.ToLower(pathOrName), ".yaml") ||
		strings.HasSuffix(strings.ToLower(pathOrName), ".yml")

	if isPath {
		data, err := os.ReadFile(pathOrName) //nolint:gosec // Intentional path-based loading
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", pathOrName, err)
		}

		return LoadConfigFromBytes(data)
	}

	if defaultConfigLoader == nil {
		return nil, fmt.Errorf("%w; use SetConfigLoader() or provide a file path", ErrNoLoader)
	}

	data, err := defaultConfigLoader.LoadByName(pathOrName)
	if err != nil {
		available := defaultConfigLoader.ListAvailable()

		return nil, fmt.Errorf("failed to load config %q (available: %v): %w", pathOrName, available, err)
	}

	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes loads boundary configuration from YAML bytes.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	var config Config

	err := yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	err = config.Validate()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}

	return &config, nil
}

// LoadConfigFromFS loads configuration from an embedded filesystem.
// This is a convenience function for loading from embed.FS.
func LoadConfigFromFS(fsys fs.FS, path string) (*Config, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from FS: %w", err)
	}

	return LoadConfigFromBytes(data)
}

// Validate checks every entry, accumulating problems so one pass reports all
// of them.
func (c *Config) Validate() error {
	col := &errors.Collection{}

	seen := make(map[string]bool)

	for i, entry := range c.Boundaries {
		if entry.Name == "" {
			col.Add(fmt.Errorf("boundary %d: %w", i, ErrUnnamedBoundary))

			continue
		}

		if seen[entry.Name] {
			col.Add(fmt.Errorf("boundary %q: %w", entry.Name, ErrDuplicateName))
		}

		seen[entry.Name] = true

		if entry.Fallback != "" && entry.RetryHint != "" {
			col.Add(fmt.Errorf("boundary %q: %w", entry.Name, ErrHintWithFallback))
		}
	}

	return col.GetError()
}
