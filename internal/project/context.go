// Package project recognises a generated project on disk. The presence of the
// source files and the template directory is the only marker; no manifest or
// lock file is consulted.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotAProject is matched by every NotAProjectError.
var ErrNotAProject = errors.New("not a langcontroller project")

// NotAProjectError lists the required entries missing from Dir.
type NotAProjectError struct {
	Dir     string
	Missing []string
}

func (e *NotAProjectError) Error() string {
	return fmt.Sprintf("%s is not a langcontroller project (missing %s)", e.Dir, strings.Join(e.Missing, ", "))
}

// Is allows errors.Is(err, ErrNotAProject).
func (e *NotAProjectError) Is(target error) bool {
	return target == ErrNotAProject
}

// Context is a directory that satisfied Load.
type Context struct {
	Dir    string
	Layout Layout
}

// Load verifies dir holds the four source artifacts and the template directory.
func Load(dir, promptExtension string) (*Context, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}
	report := Check(abs, promptExtension)
	if missing := report.MissingRequired(); len(missing) > 0 {
		return nil, &NotAProjectError{Dir: abs, Missing: missing}
	}
	return &Context{Dir: abs, Layout: report.Layout}, nil
}

// Entry describes one expected piece of a project.
type Entry struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Dir      bool   `json:"dir"`
	Required bool   `json:"required"`
	Present  bool   `json:"present"`
	Problem  string `json:"problem,omitempty"`
}

// Report is the result of inspecting a directory without failing on gaps.
type Report struct {
	Dir     string  `json:"dir"`
	Layout  Layout  `json:"-"`
	Entries []Entry `json:"entries"`
	Prompts int     `json:"prompts"`
}

// Check inspects dir and reports every required and optional project entry.
func Check(dir, promptExtension string) Report {
	layout := NewLayout(dir, promptExtension)
	expected := []Entry{
		{Name: filepath.Join(SourceDir, ModelsFile), Path: layout.Models(), Required: true},
		{Name: filepath.Join(SourceDir, ControllersFile), Path: layout.Controllers(), Required: true},
		{Name: filepath.Join(SourceDir, PipelineFile), Path: layout.Pipeline(), Required: true},
		{Name: filepath.Join(SourceDir, EntrypointFile), Path: layout.Entrypoint(), Required: true},
		{Name: TemplatesDir, Path: layout.TemplatesDir(), Dir: true, Required: true},
		{Name: filepath.Join(TemplatesDir, PromptBaseName+layout.PromptExtension), Path: layout.PromptBase()},
		{Name: ManifestFile, Path: layout.Manifest()},
		{Name: GitignoreFile, Path: layout.Gitignore()},
		{Name: LintConfigFile, Path: layout.LintConfig()},
		{Name: TestConfigFile, Path: layout.TestConfig()},
	}

	report := Report{Dir: dir, Layout: layout, Entries: make([]Entry, 0, len(expected))}
	for _, entry := range expected {
		info, err := os.Stat(entry.Path)
		switch {
		case err == nil && info.IsDir() == entry.Dir:
			entry.Present = true
		case err == nil && entry.Dir:
			entry.Problem = "expected a directory"
		case err == nil:
			entry.Problem = "expected a file"
		case !os.IsNotExist(err):
			entry.Problem = err.Error()
		}
		report.Entries = append(report.Entries, entry)
	}
	report.Prompts = countPrompts(layout)
	return report
}

// MissingRequired returns the names of required entries that are absent or malformed.
func (r Report) MissingRequired() []string {
	missing := []string{}
	for _, entry := range r.Entries {
		if entry.Required && !entry.Present {
			missing = append(missing, entry.Name)
		}
	}
	return missing
}

// Healthy reports whether every entry, required or optional, is present.
func (r Report) Healthy() bool {
	for _, entry := range r.Entries {
		if !entry.Present {
			return false
		}
	}
	return true
}

func countPrompts(layout Layout) int {
	entries, err := os.ReadDir(layout.TemplatesDir())
	if err != nil {
		return 0
	}
	base := filepath.Base(layout.PromptBase())
	count := 0
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == base {
			continue
		}
		if filepath.Ext(entry.Name()) == layout.PromptExtension {
			count++
		}
	}
	return count
}
