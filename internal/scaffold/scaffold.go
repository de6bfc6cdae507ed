// Package scaffold sequences name derivation, template rendering and artifact
// writes for project creation and feature additions.
package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/langcontroller/langcontroller/internal/artifact"
	"github.com/langcontroller/langcontroller/internal/config"
	"github.com/langcontroller/langcontroller/internal/names"
	"github.com/langcontroller/langcontroller/internal/project"
	"github.com/langcontroller/langcontroller/internal/templates"
)

// Operation names as reported and registered as commands.
const (
	OpInitProject        = "make-project"
	OpAddTerminalFeature = "make-feature-no-source"
	OpAddLinkedFeature   = "make-feature-with-source"
)

// step is one artifact write within an operation.
type step struct {
	artifact string
	template string
	path     string
	mode     artifact.Mode
}

// Scaffolder runs the three scaffolding operations against one renderer and writer.
type Scaffolder struct {
	renderer        *templates.Renderer
	writer          *artifact.Writer
	processor       string
	promptExtension string
	log             *logrus.Entry
}

// New constructs a scaffolder. An empty promptExtension selects the project default.
func New(opts *config.Options, renderer *templates.Renderer, writer *artifact.Writer, promptExtension string) *Scaffolder {
	if promptExtension == "" {
		promptExtension = project.DefaultPromptExtension
	}
	processor := opts.Processor
	if processor == "" {
		processor = config.DefaultProcessor
	}
	return &Scaffolder{
		renderer:        renderer,
		writer:          writer,
		processor:       processor,
		promptExtension: promptExtension,
		log:             opts.Logger().WithField("component", "scaffold"),
	}
}

// InitProject creates <parent>/<TypeName> with its skeleton and static files.
// It fails without writing anything if the project directory already exists.
func (s *Scaffolder) InitProject(parent, projectRaw string) (*Report, error) {
	forms, err := names.Parse(projectRaw)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(parent, forms.Type)
	if _, err := os.Lstat(dir); err == nil {
		return nil, &ProjectExistsError{Dir: dir}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to inspect %s: %w", dir, err)
	}

	layout := project.NewLayout(dir, s.promptExtension)
	for _, d := range []string{layout.Root, layout.SourceDir(), layout.TemplatesDir()} {
		if err := s.writer.Mkdir(d); err != nil {
			return nil, err
		}
	}

	ctx := forms.Context("project")
	ctx["processor"] = s.processor
	ctx["prompt_extension"] = s.promptExtension

	steps := []step{
		{ArtifactManifest, templates.ProjectManifest, layout.Manifest(), artifact.ModeCreate},
		{ArtifactGitignore, templates.ProjectGitignore, layout.Gitignore(), artifact.ModeCreate},
		{ArtifactLintConfig, templates.ProjectLintConfig, layout.LintConfig(), artifact.ModeCreate},
		{ArtifactTestConfig, templates.ProjectTestConfig, layout.TestConfig(), artifact.ModeCreate},
		{ArtifactPromptBase, templates.ProjectPromptBase, layout.PromptBase(), artifact.ModeCreate},
		{ArtifactModels, templates.ProjectModels, layout.Models(), artifact.ModeCreate},
		{ArtifactControllers, templates.ProjectControllers, layout.Controllers(), artifact.ModeCreate},
		{ArtifactPipeline, templates.ProjectPipeline, layout.Pipeline(), artifact.ModeCreate},
		{ArtifactEntrypoint, templates.ProjectEntrypoint, layout.Entrypoint(), artifact.ModeCreate},
	}

	report := s.run(OpInitProject, dir, steps, ctx)
	return report, report.Err()
}

// AddTerminalFeature parses the raw names and adds a feature with no source.
func (s *Scaffolder) AddTerminalFeature(dir, targetRaw string, attributesRaw ...string) (*Report, error) {
	ctx, err := project.Load(dir, s.promptExtension)
	if err != nil {
		return nil, err
	}
	spec, err := NewTerminalFeature(targetRaw, attributesRaw...)
	if err != nil {
		return nil, err
	}
	return s.addFeature(ctx, spec)
}

// AddLinkedFeature parses the raw names and adds a feature derived from source.
func (s *Scaffolder) AddLinkedFeature(dir, sourceRaw, targetRaw string, attributesRaw ...string) (*Report, error) {
	ctx, err := project.Load(dir, s.promptExtension)
	if err != nil {
		return nil, err
	}
	spec, err := NewLinkedFeature(sourceRaw, targetRaw, attributesRaw...)
	if err != nil {
		return nil, err
	}
	return s.addFeature(ctx, spec)
}

// AddFeature adds an already parsed feature to the project in dir.
func (s *Scaffolder) AddFeature(dir string, spec FeatureSpec) (*Report, error) {
	ctx, err := project.Load(dir, s.promptExtension)
	if err != nil {
		return nil, err
	}
	return s.addFeature(ctx, spec)
}

func (s *Scaffolder) addFeature(pc *project.Context, spec FeatureSpec) (*Report, error) {
	op := OpAddTerminalFeature
	ids := [4]string{templates.PromptCreateTerminal, templates.ModelsAppendClass, templates.ControllersAppendTerminal, templates.PipelineAppendTerminal}
	if spec.Linked() {
		op = OpAddLinkedFeature
		ids = [4]string{templates.PromptCreateLinked, templates.ModelsAppendClass, templates.ControllersAppendLinked, templates.PipelineAppendLinked}
	}

	layout := pc.Layout
	steps := []step{
		{ArtifactPrompt, ids[0], layout.Prompt(spec.PromptName()), artifact.ModeCreate},
		{ArtifactModels, ids[1], layout.Models(), artifact.ModeAppend},
		{ArtifactControllers, ids[2], layout.Controllers(), artifact.ModeAppend},
		{ArtifactPipeline, ids[3], layout.Pipeline(), artifact.ModeAppend},
	}

	report := s.run(op, pc.Dir, steps, spec.Context(s.processor, layout.PromptExtension))
	report.Prompt = spec.PromptName().String()
	return report, report.Err()
}

// run attempts every step in order. A failed step is recorded and the
// remaining steps still run.
func (s *Scaffolder) run(op, dir string, steps []step, ctx map[string]string) *Report {
	report := &Report{Operation: op, Dir: dir, DryRun: s.writer.DryRun(), Results: make([]Result, 0, len(steps))}
	for _, st := range steps {
		res := Result{Artifact: st.artifact, Template: st.template, Path: st.path}
		fields := logrus.Fields{"action": op, "template": st.template, "path": st.path, "mode": st.mode.String()}

		content, err := s.renderer.Render(st.template, ctx)
		if err == nil {
			err = s.writer.Write(st.path, content, st.mode)
		}
		if err != nil {
			res.Outcome = OutcomeFailed
			res.Err = err
			res.Error = err.Error()
			s.log.WithFields(fields).WithError(err).Warn("Artifact failed")
		} else {
			res.Outcome = OutcomeCreated
			if st.mode == artifact.ModeAppend {
				res.Outcome = OutcomeAppended
			}
			s.log.WithFields(fields).Info("Artifact completed")
		}
		report.Results = append(report.Results, res)
	}
	return report
}
