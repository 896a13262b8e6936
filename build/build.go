// Package build parses build metadata embedded at compile time. Binaries
// inject a JSON blob via -ldflags and log it at startup, so deployed renders
// can always be traced back to a commit.
package build

import (
	"encoding/json"

	"github.com/viewlabs/boundary/logger"
)

const shortCommitLength = 8

// Info contains build metadata injected via -ldflags.
type Info struct {
	GitCommit string `json:"git_commit"` //nolint:tagliatelle
	GitBranch string `json:"git_branch"` //nolint:tagliatelle
	BuildTime string `json:"build_time"` //nolint:tagliatelle
	GoVersion string `json:"go_version"` //nolint:tagliatelle
}

// Parse deserializes a JSON string into build Info.
// Returns (nil, false) if the input is empty, "{}", or fails to parse.
func Parse(js string) (*Info, bool) {
	if len(js) == 0 {
		return nil, false
	}

	if js == "{}" {
		return nil, false
	}

	var info Info

	err := json.Unmarshal([]byte(js), &info)
	if err != nil {
		logger.Get().Warn("Failed to parse build info from JSON",
			"data", js,
			"error", err)

		return nil, false
	}

	return &info, true
}

// Version returns a short human-readable version: the abbreviated commit, or
// "dev" for binaries built without injected metadata. Safe on a nil receiver,
// so callers can use the Parse result without checking ok.
func (i *Info) Version() string {
	if i == nil || i.GitCommit == "" {
		return "dev"
	}

	commit := i.GitCommit
	if len(commit) > shortCommitLength {
		commit = commit[:shortCommitLength]
	}

	return commit
}
