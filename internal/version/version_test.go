package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	old := Version
	Version = "v9.9.9"
	defer func() { Version = old }()

	s := String()
	if !strings.HasPrefix(s, "blogsmith v9.9.9 ") {
		t.Errorf("unexpected version line: %q", s)
	}
	if !strings.Contains(s, "commit "+GitCommit) {
		t.Errorf("missing commit in %q", s)
	}
}

func TestDefaultsInitialized(t *testing.T) {
	if Version == "" || BuildTime == "" || GitCommit == "" {
		t.Error("build metadata should never be empty")
	}
}
