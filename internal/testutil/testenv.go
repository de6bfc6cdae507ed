package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/langcontroller/langcontroller/internal/config"
	"github.com/langcontroller/langcontroller/internal/project"
)

// Fixture provides a temporary working directory for CLI and scaffold tests.
type Fixture struct {
	Root string
}

// NewFixture returns a fixture rooted at an empty temporary directory.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	return &Fixture{Root: t.TempDir()}
}

// NewProjectFixture returns a fixture whose root already looks like a generated
// project: the four source files, the template directory and its base prompt.
func NewProjectFixture(t *testing.T) *Fixture {
	t.Helper()
	fix := NewFixture(t)
	layout := project.NewLayout(fix.Root, "")
	files := map[string]string{
		layout.Models():      "from pydantic import BaseModel\n",
		layout.Controllers(): "import marvin\n",
		layout.Pipeline():    "from app import controllers\n",
		layout.Entrypoint():  "def main():\n    pass\n",
		layout.PromptBase():  "{% block prompt %}{% endblock %}\n",
	}
	for path, content := range files {
		fix.write(t, path, []byte(content))
	}
	return fix
}

// Options returns cli options initialised for the fixture.
func (f *Fixture) Options(t *testing.T, jsonOut, verbose, dry bool) *config.Options {
	t.Helper()
	opts := config.New()
	if err := opts.Init(f.Root, jsonOut, verbose, dry, ""); err != nil {
		t.Fatalf("failed to init options: %v", err)
	}
	return opts
}

// WriteFile writes a file relative to the fixture root.
func (f *Fixture) WriteFile(t *testing.T, relative string, data []byte) {
	t.Helper()
	f.write(t, f.Path(relative), data)
}

// ReadFile reads a file relative to the fixture root.
func (f *Fixture) ReadFile(t *testing.T, relative string) string {
	t.Helper()
	// #nosec G304 -- test fixture path
	data, err := os.ReadFile(f.Path(relative))
	if err != nil {
		t.Fatalf("failed to read %s: %v", relative, err)
	}
	return string(data)
}

// Remove deletes a file or directory relative to the fixture root.
func (f *Fixture) Remove(t *testing.T, relative string) {
	t.Helper()
	if err := os.RemoveAll(f.Path(relative)); err != nil {
		t.Fatalf("failed to remove %s: %v", relative, err)
	}
}

// Snapshot maps every file under the fixture root to its content. Directories
// are keyed with a trailing separator and an empty value; the root itself is omitted.
func (f *Fixture) Snapshot(t *testing.T) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(f.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == f.Root {
			return nil
		}
		rel, relErr := filepath.Rel(f.Root, path)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			out[rel+string(filepath.Separator)] = ""
			return nil
		}
		// #nosec G304 -- test fixture path
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		out[rel] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to snapshot fixture: %v", err)
	}
	return out
}

// Path resolves a path relative to the fixture root.
func (f *Fixture) Path(parts ...string) string {
	return filepath.Join(append([]string{f.Root}, parts...)...)
}

func (f *Fixture) write(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}
