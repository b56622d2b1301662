package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func override(t *testing.T, v, commit, msg, date string) {
	t.Helper()
	origV, origC, origM, origD := Version, GitCommit, GitMessage, BuildDate
	Version, GitCommit, GitMessage, BuildDate = v, commit, msg, date
	t.Cleanup(func() {
		Version, GitCommit, GitMessage, BuildDate = origV, origC, origM, origD
	})
}

func TestDescribe(t *testing.T) {
	override(t, "1.2.3", "abc123", "fix lexer", "2024-01-15T10:30:00Z")
	got := Describe(false)
	want := "tpyparser 1.2.3\ncommit: abc123\nmessage: fix lexer\nbuilt: 2024-01-15T10:30:00Z\n"
	if got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}

func TestDescribeOptionalFields(t *testing.T) {
	override(t, "0.1.0-dev", "", "ignored without commit", "")
	if got := Describe(false); got != "tpyparser 0.1.0-dev\n" {
		t.Errorf("Describe() = %q", got)
	}
}

func TestColored(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	tests := []string{"0.1.0-dev", "1.2.3", "1.0.0-rc.1+build.5", "nightly"}
	for _, v := range tests {
		override(t, v, "", "", "")
		if got := Colored(); got != v {
			t.Errorf("Colored() without color = %q, want %q", got, v)
		}
	}
}

func TestColoredHighlightsParts(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	override(t, "2.0.0", "", "", "")
	if got := Colored(); !strings.Contains(got, "\x1b[") {
		t.Errorf("expected escape codes, got %q", got)
	}
}
