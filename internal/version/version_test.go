package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColored(t *testing.T) {
	orig, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = orig, origNoColor }()
	color.NoColor = true

	tests := []struct{ in, want string }{
		{"1.2.3", "1.2.3"},
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3-rc.1+build.123", "1.2.3-rc.1+build.123"},
		{"nightly", "nightly"},
	}
	for _, tt := range tests {
		Version = tt.in
		if got := Colored(); got != tt.want {
			t.Errorf("Colored(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	color.NoColor = false
	Version = "1.2.3"
	if got := Colored(); got == "1.2.3" || !strings.Contains(got, "\x1b[") {
		t.Errorf("expected ANSI colors, got %q", got)
	}
}

func TestInfo_OptionalFields(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	defer func() { GitCommit, BuildDate = origCommit, origDate }()

	GitCommit, BuildDate = "", ""
	if out := Info(); strings.Contains(out, "commit:") || strings.Contains(out, "built:") {
		t.Errorf("empty fields should be omitted:\n%s", out)
	}
	GitCommit, BuildDate = "abc123", "2024-01-15T10:30:00Z"
	out := Info()
	if !strings.Contains(out, "commit: abc123") || !strings.Contains(out, "built:  2024-01-15T10:30:00Z") {
		t.Errorf("info = %s", out)
	}
}
