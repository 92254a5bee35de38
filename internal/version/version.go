package version

import (
	"fmt"
	"runtime"
)

// Build information, set via ldflags during release builds
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
	BuiltBy = "source"
)

// GetVersion returns the kuma version printed by --version
func GetVersion() string {
	if Version == "" {
		return "dev"
	}
	return Version
}

// GetCommit returns the git commit kuma was built from
func GetCommit() string {
	if Commit == "" {
		return "unknown"
	}
	return Commit
}

// GetFullVersion returns the --verbose-version line: the version followed
// by the build provenance and the Go runtime, the way rubocop names the
// Ruby it runs on
func GetFullVersion() string {
	return fmt.Sprintf("%s (commit %s, built %s by %s, running on %s %s/%s)",
		GetVersion(), GetCommit(), Date, BuiltBy, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
