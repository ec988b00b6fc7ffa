// Package buildinfo holds the version stamped into beavr builds.
//
// The variables are overwritten by the linker:
//
//	go build -ldflags "-X github.com/matzehuels/beavr/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/beavr/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/beavr/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/beavr
package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"     // Semantic version, e.g. "v0.3.0"
	Commit  = "none"    // Short git commit
	Date    = "unknown" // Build timestamp (RFC 3339)
)

// Info is the build information as reported by the API.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

// Get returns the current build information.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date, Go: runtime.Version()}
}

// Template returns the version template for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s, %s)\n", Version, Commit, Date, runtime.Version())
}
