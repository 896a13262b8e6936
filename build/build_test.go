package build_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viewlabs/boundary/build"
)

func TestParse_ValidJSON(t *testing.T) {
	t.Parallel()

	js := `{
		"git_commit": "abc123",
		"git_branch": "main",
		"build_time": "2026-08-25T12:00:00Z",
		"go_version": "go1.25.0"
	}`

	info, ok := build.Parse(js)

	assert.True(t, ok)
	assert.NotNil(t, info)
	assert.Equal(t, "abc123", info.GitCommit)
	assert.Equal(t, "main", info.GitBranch)
	assert.Equal(t, "2026-08-25T12:00:00Z", info.BuildTime)
	assert.Equal(t, "go1.25.0", info.GoVersion)
}

func TestParse_EmptyString(t *testing.T) {
	t.Parallel()

	info, ok := build.Parse("")

	assert.False(t, ok)
	assert.Nil(t, info)
}

func TestParse_EmptyJSON(t *testing.T) {
	t.Parallel()

	info, ok := build.Parse("{}")

	assert.False(t, ok)
	assert.Nil(t, info)
}

func TestParse_InvalidJSON(t *testing.T) {
	t.Parallel()

	info, ok := build.Parse("not valid json")

	assert.False(t, ok)
	assert.Nil(t, info)
}

func TestParse_PartialJSON(t *testing.T) {
	t.Parallel()

	js := `{
		"git_commit": "abc123"
	}`

	info, ok := build.Parse(js)

	assert.True(t, ok)
	assert.NotNil(t, info)
	assert.Equal(t, "abc123", info.GitCommit)
	assert.Empty(t, info.GitBranch)
	assert.Empty(t, info.BuildTime)
	assert.Empty(t, info.GoVersion)
}

func TestVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		info     *build.Info
		expected string
	}{
		{
			name:     "nil info",
			info:     nil,
			expected: "dev",
		},
		{
			name:     "no commit",
			info:     &build.Info{GitBranch: "main"},
			expected: "dev",
		},
		{
			name:     "short commit kept as is",
			info:     &build.Info{GitCommit: "abc123"},
			expected: "abc123",
		},
		{
			name:     "long commit abbreviated",
			info:     &build.Info{GitCommit: "0123456789abcdef0123456789abcdef01234567"},
			expected: "01234567",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, test.expected, test.info.Version())
		})
	}
}
