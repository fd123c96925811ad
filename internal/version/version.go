// Package version holds build metadata injected with ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/blogsmith/internal/version.Version=v1.2.0"
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version line printed by `blogsmith version`.
func String() string {
	return fmt.Sprintf("blogsmith %s (commit %s, built %s, %s)", Version, GitCommit, BuildTime, runtime.Version())
}
