package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the optional descriptor at the root of a template pack directory.
const ManifestFile = "pack.yaml"

// DefaultPromptExtension is used when a pack does not declare one.
const DefaultPromptExtension = ".jinja2"

const manifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "version": {"type": "string"},
    "requires": {"type": "string"},
    "prompt_extension": {"type": "string", "pattern": "^\\.[A-Za-z0-9]+$"}
  },
  "additionalProperties": false
}`

// Manifest describes a template pack.
type Manifest struct {
	Name            string `yaml:"name" json:"name"`
	Version         string `yaml:"version" json:"version,omitempty"`
	Requires        string `yaml:"requires" json:"requires,omitempty"`
	PromptExtension string `yaml:"prompt_extension" json:"prompt_extension,omitempty"`
}

// Extension returns the prompt file extension, falling back to the default.
func (m *Manifest) Extension() string {
	if m == nil || m.PromptExtension == "" {
		return DefaultPromptExtension
	}
	return m.PromptExtension
}

// ManifestError lists schema violations found in a pack manifest.
type ManifestError struct {
	Path   string
	Issues []string
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("invalid template pack manifest %s: %s", e.Path, strings.Join(e.Issues, "; "))
}

// IncompatiblePackError reports a pack whose requires constraint excludes the running CLI.
type IncompatiblePackError struct {
	Pack       string
	Constraint string
	CLIVersion string
}

func (e *IncompatiblePackError) Error() string {
	return fmt.Sprintf("template pack %s requires %s, running %s", e.Pack, e.Constraint, e.CLIVersion)
}

// LoadManifest reads pack.yaml from dir. A missing file yields (nil, nil).
func LoadManifest(dir, cliVersion string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	// #nosec G304 -- manifest path is derived from the configured template directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read template pack manifest: %w", err)
	}
	return ParseManifest(path, data, cliVersion)
}

// ParseManifest decodes and validates manifest bytes. cliVersion is checked
// against the requires constraint unless it is not a semantic version (dev builds).
func ParseManifest(path string, data []byte, cliVersion string) (*Manifest, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse template pack manifest %s: %w", path, err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}

	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(manifestSchema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to validate template pack manifest %s: %w", path, err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, issue := range result.Errors() {
			issues = append(issues, issue.String())
		}
		return nil, &ManifestError{Path: path, Issues: issues}
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode template pack manifest %s: %w", path, err)
	}

	if m.Requires != "" {
		constraint, err := semver.NewConstraint(m.Requires)
		if err != nil {
			return nil, &ManifestError{Path: path, Issues: []string{fmt.Sprintf("requires: %v", err)}}
		}
		if current, err := semver.NewVersion(strings.TrimPrefix(cliVersion, "v")); err == nil {
			if !constraint.Check(current) {
				return nil, &IncompatiblePackError{Pack: m.Name, Constraint: m.Requires, CLIVersion: cliVersion}
			}
		}
	}
	return &m, nil
}

// DirRepository serves a template pack from a directory on disk.
type DirRepository struct {
	*FSRepository
	Dir      string
	Manifest *Manifest
}

// NewDirRepository opens dir as a template pack, validating pack.yaml when present.
func NewDirRepository(dir, cliVersion string) (*DirRepository, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("template directory invalid: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template directory invalid: %s is not a directory", dir)
	}
	manifest, err := LoadManifest(dir, cliVersion)
	if err != nil {
		return nil, err
	}
	return &DirRepository{
		FSRepository: NewFSRepository(os.DirFS(dir)),
		Dir:          dir,
		Manifest:     manifest,
	}, nil
}
