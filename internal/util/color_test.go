package util

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func withColor(t *testing.T, enabled bool) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = !enabled
	t.Cleanup(func() { color.NoColor = prev })
}

func TestColorizeDiffDisabled(t *testing.T) {
	withColor(t, false)
	diff := "--- a/x\n+++ b/x\n@@ -1 +1 @@\n-old\n+new\n"
	if got := ColorizeDiff(diff); got != diff {
		t.Fatalf("expected diff unchanged, got %q", got)
	}
}

func TestColorizeDiffEnabled(t *testing.T) {
	withColor(t, true)
	got := ColorizeDiff("--- a/x\n+++ b/x\n@@ -1 +1 @@\n-old\n+new\n context")
	lines := strings.Split(got, "\n")
	if !strings.Contains(lines[3], "\x1b[31m") || !strings.Contains(lines[3], "-old") {
		t.Fatalf("expected red removal, got %q", lines[3])
	}
	if !strings.Contains(lines[4], "\x1b[32m") {
		t.Fatalf("expected green addition, got %q", lines[4])
	}
	if !strings.Contains(lines[0], "\x1b[36m") || !strings.Contains(lines[2], "\x1b[36m") {
		t.Fatalf("expected cyan headers, got %q", got)
	}
	if lines[5] != " context" {
		t.Fatalf("context line should be untouched, got %q", lines[5])
	}
}

func TestStatusMarker(t *testing.T) {
	withColor(t, false)
	tests := map[string]string{
		"created":  "CREATE ",
		"appended": "APPEND ",
		"failed":   "FAILED ",
		"present":  "OK     ",
		"missing":  "MISSING",
		"optional": "ABSENT ",
		"other":    "OTHER",
	}
	for outcome, want := range tests {
		if got := StatusMarker(outcome); got != want {
			t.Errorf("StatusMarker(%q) = %q, want %q", outcome, got, want)
		}
	}
}
