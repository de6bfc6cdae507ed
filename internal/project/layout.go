package project

import (
	"path/filepath"

	"github.com/langcontroller/langcontroller/internal/names"
)

// Directory and file names inside a generated project.
const (
	SourceDir       = "app"
	TemplatesDir    = "templates"
	ModelsFile      = "models.py"
	ControllersFile = "controllers.py"
	PipelineFile    = "pipeline.py"
	EntrypointFile  = "main.py"
	ManifestFile    = "pyproject.toml"
	GitignoreFile   = ".gitignore"
	LintConfigFile  = "ruff.toml"
	TestConfigFile  = "pytest.ini"
	PromptBaseName  = "base"
)

// DefaultPromptExtension is used when no template pack overrides it.
const DefaultPromptExtension = ".jinja2"

// Layout resolves artifact paths under a project root.
type Layout struct {
	Root            string
	PromptExtension string
}

// NewLayout returns a layout rooted at root. An empty extension selects DefaultPromptExtension.
func NewLayout(root, promptExtension string) Layout {
	if promptExtension == "" {
		promptExtension = DefaultPromptExtension
	}
	return Layout{Root: root, PromptExtension: promptExtension}
}

// SourceDir holds the generated Python package.
func (l Layout) SourceDir() string { return filepath.Join(l.Root, SourceDir) }

// TemplatesDir holds the prompt templates.
func (l Layout) TemplatesDir() string { return filepath.Join(l.Root, TemplatesDir) }

// Models holds one pydantic class per feature target.
func (l Layout) Models() string { return filepath.Join(l.Root, SourceDir, ModelsFile) }

// Controllers holds one prompt-bound function per feature.
func (l Layout) Controllers() string { return filepath.Join(l.Root, SourceDir, ControllersFile) }

// Pipeline holds one asset per feature, each calling its controller.
func (l Layout) Pipeline() string { return filepath.Join(l.Root, SourceDir, PipelineFile) }

// Entrypoint is the runnable module created with the project.
func (l Layout) Entrypoint() string { return filepath.Join(l.Root, SourceDir, EntrypointFile) }

// Manifest is the project's pyproject.toml.
func (l Layout) Manifest() string { return filepath.Join(l.Root, ManifestFile) }

// Gitignore is the project's ignore file, also honoured by the prompt index.
func (l Layout) Gitignore() string { return filepath.Join(l.Root, GitignoreFile) }

// LintConfig is the linter configuration at the project root.
func (l Layout) LintConfig() string { return filepath.Join(l.Root, LintConfigFile) }

// TestConfig is the test runner configuration at the project root.
func (l Layout) TestConfig() string { return filepath.Join(l.Root, TestConfigFile) }

// PromptBase is the template every prompt extends.
func (l Layout) PromptBase() string {
	return filepath.Join(l.Root, TemplatesDir, PromptBaseName+l.PromptExtension)
}

// Prompt is the template file owned by one prompt identity.
func (l Layout) Prompt(slug names.Slug) string {
	return filepath.Join(l.Root, TemplatesDir, slug.String()+l.PromptExtension)
}

// AppendTargets lists the files every feature addition appends to, in write order.
func (l Layout) AppendTargets() []string {
	return []string{l.Models(), l.Controllers(), l.Pipeline()}
}
