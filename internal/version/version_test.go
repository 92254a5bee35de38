package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestGetVersion_EmptyFallsBackToDev(t *testing.T) {
	saved := Version
	t.Cleanup(func() { Version = saved })

	Version = ""
	if got := GetVersion(); got != "dev" {
		t.Errorf("Expected 'dev', got %q", got)
	}
}

func TestGetFullVersion(t *testing.T) {
	savedVersion, savedCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = savedVersion, savedCommit })

	Version, Commit = "1.2.3", "abc123"
	full := GetFullVersion()

	if !strings.HasPrefix(full, "1.2.3 (commit abc123,") {
		t.Errorf("Unexpected full version: %q", full)
	}
	if !strings.Contains(full, runtime.Version()) {
		t.Errorf("Expected the Go runtime in %q", full)
	}

	Commit = ""
	if GetCommit() != "unknown" {
		t.Errorf("Expected 'unknown' for an empty commit, got %q", GetCommit())
	}
}
