// Package tests carries test metadata (unique ID, test name, the *testing.T)
// through context.Context, so helpers can name resources after the running
// test and correlate log output with it.
//
// Example usage:
//
//	func TestMyFeature(t *testing.T) {
//	    ctx := tests.GetUniqueContext(t)
//
//	    info, ok := tests.GetTestInfo(ctx)
//	    if ok {
//	        fmt.Printf("Running test: %s with ID: %s\n", info.Name, info.ID)
//	    }
//	}
package tests

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/viewlabs/boundary/contexts"
	"github.com/viewlabs/boundary/envcfg"
)

// contextKey prevents collisions with other packages' context keys.
type contextKey string

const (
	testIDKey   contextKey = "testId"
	testNameKey contextKey = "testName"
	testTestKey contextKey = "testTest"
)

// GetUniqueContext derives a context from t.Context() carrying a unique test
// ID (a uuid with a "test-" prefix), the test name and the test itself.
func GetUniqueContext(t *testing.T) context.Context {
	t.Helper()

	return contexts.WithMultipleValues[contextKey](t.Context(), map[contextKey]any{
		testTestKey: t,
		testIDKey:   "test-" + uuid.NewString(),
		testNameKey: t.Name(),
	})
}

// CheckSkipped skips the test when the boolean environment variable envKey
// says so. An optional second defaultValue element inverts the check (skip
// when the variable is false), for tests that should only run when a flag is
// explicitly enabled.
func CheckSkipped(t *testing.T, envKey string, defaultValue ...bool) {
	t.Helper()

	defl := false
	invert := false

	if len(defaultValue) > 0 {
		defl = defaultValue[0]
	}

	if len(defaultValue) > 1 {
		invert = defaultValue[1]
	}

	shouldSkip := envcfg.Bool(envKey, envcfg.Default(defl)).ValueOrElse(defl)

	original := shouldSkip

	if invert {
		shouldSkip = !shouldSkip
	}

	if shouldSkip {
		t.Skipf("Skipping test because of environment variable: %s=%v",
			envKey, original)
	}
}

// GetTestName returns the test name stored in the context, if any.
func GetTestName(ctx context.Context) (string, bool) {
	return contexts.GetValue[contextKey, string](ctx, testNameKey)
}

// GetTestID returns the unique test ID stored in the context, if any.
func GetTestID(ctx context.Context) (string, bool) {
	return contexts.GetValue[contextKey, string](ctx, testIDKey)
}

// GetTest returns the *testing.T stored in the context, if any.
func GetTest(ctx context.Context) (*testing.T, bool) {
	return contexts.GetValue[contextKey, *testing.T](ctx, testTestKey)
}

// Info bundles the metadata GetUniqueContext stores.
type Info struct {
	Test *testing.T `json:"-"`
	ID   string     `json:"id"`
	Name string     `json:"name"`
}

// GetTestInfo returns the test metadata from the context. The second return
// is false when none of the fields are present.
func GetTestInfo(ctx context.Context) (Info, bool) {
	name, nameOk := GetTestName(ctx)
	id, idOk := GetTestID(ctx)
	t, tOk := GetTest(ctx)

	if !nameOk && !idOk && !tOk {
		return Info{}, false
	}

	return Info{
		Test: t,
		ID:   id,
		Name: name,
	}, true
}
