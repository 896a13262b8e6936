// Package envcfg reads typed configuration values from environment variables.
// Each accessor returns a Reader that records presence and parse errors, so
// callers choose between defaults, hard failures, and validation per value.
package envcfg

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrBadEnvVar     = errors.New("error parsing environment variable")
	ErrEnvVarMissing = errors.New("missing environment variable")

	// ErrBadLogLevel indicates an unrecognized slog level name.
	ErrBadLogLevel = errors.New("unrecognized log level")
)

// get looks up key in the process environment.
func get(key string) Reader[string] {
	val, ok := os.LookupEnv(key)

	return Reader[string]{
		key:     key,
		present: ok,
		value:   val,
	}
}

// String returns a Reader for the given environment variable key.
func String(key string, opts ...Option[string]) Reader[string] {
	rdr := get(key)
	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

// Bool returns a Reader for a boolean variable. Accepted spellings are those
// of strconv.ParseBool.
func Bool(key string, opts ...Option[bool]) Reader[bool] {
	rdr := Map(get(key), strconv.ParseBool)
	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

// Int returns a Reader for an integer variable.
func Int(key string, opts ...Option[int]) Reader[int] {
	rdr := Map(get(key), strconv.Atoi)
	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

// Duration returns a Reader for a time.Duration variable, parsed with
// time.ParseDuration (e.g. "250ms", "5s").
func Duration(key string, opts ...Option[time.Duration]) Reader[time.Duration] {
	rdr := Map(get(key), time.ParseDuration)
	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

// SlogLevel returns a Reader for a slog.Level variable. Level names are
// matched case-insensitively ("debug", "info", "warn", "error").
func SlogLevel(key string, opts ...Option[slog.Level]) Reader[slog.Level] {
	rdr := Map(get(key), parseSlogLevel)
	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

// NewReader builds a Reader from raw parts. Useful when a value comes from
// somewhere other than the process environment but should flow through the
// same defaulting and validation machinery.
func NewReader[T any](key string, present bool, err error, value T) Reader[T] {
	return Reader[T]{
		key:     key,
		present: present,
		value:   value,
		err:     err,
	}
}

func parseSlogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrBadLogLevel, value)
	}
}
