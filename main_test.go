package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/langcontroller/langcontroller/cmd"
	"github.com/langcontroller/langcontroller/internal/config"
	"github.com/langcontroller/langcontroller/internal/testutil"
)

func TestRunSuccessAndFailure(t *testing.T) {
	fix := testutil.NewFixture(t)
	t.Setenv("LANGCONTROLLER_TEMPLATES", "")

	root := cmd.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--root", fix.Root, "--config", fix.Path("config.yaml"), "make-project", "demo"})
	if code := run(); code != 0 {
		t.Fatalf("expected success, got %d", code)
	}
	if !bytes.Contains(out.Bytes(), []byte("make-project: 9 artifacts written")) {
		t.Fatalf("unexpected output: %s", out.String())
	}

	root.SetArgs([]string{"--root", fix.Root, "make-project", "demo"})
	if code := run(); code != cmd.ExitCodeProjectExists {
		t.Fatalf("expected project-exists exit, got %d", code)
	}

	root.SetArgs([]string{"--root", fix.Root, "make-feature-no-source", "strategy", "mission"})
	if code := run(); code != cmd.ExitCodeNotAProject {
		t.Fatalf("expected not-a-project exit, got %d", code)
	}

	root.SetArgs(nil)
	config.SetCurrent(nil)
}
