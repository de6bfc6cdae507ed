package scaffold

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langcontroller/langcontroller/internal/artifact"
	"github.com/langcontroller/langcontroller/internal/config"
	"github.com/langcontroller/langcontroller/internal/names"
	"github.com/langcontroller/langcontroller/internal/project"
	"github.com/langcontroller/langcontroller/internal/templates"
	"github.com/langcontroller/langcontroller/internal/testutil"
)

func newScaffolder(t *testing.T, opts *config.Options, repo templates.Repository, dry bool) (*Scaffolder, *artifact.Writer) {
	t.Helper()
	writer := artifact.NewWriter(opts.Logger(), dry)
	renderer := templates.NewRenderer(repo, opts.Logger())
	return New(opts, renderer, writer, ""), writer
}

func initProject(t *testing.T, fix *testutil.Fixture, name string) (*Scaffolder, string) {
	t.Helper()
	s, _ := newScaffolder(t, fix.Options(t, false, false, false), templates.Embedded(), false)
	report, err := s.InitProject(fix.Root, name)
	require.NoError(t, err)
	return s, report.Dir
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestInitProjectCreatesLayout(t *testing.T) {
	fix := testutil.NewFixture(t)
	s, _ := newScaffolder(t, fix.Options(t, false, false, false), templates.Embedded(), false)

	report, err := s.InitProject(fix.Root, "Moon Tours")
	require.NoError(t, err)
	assert.Equal(t, OpInitProject, report.Operation)
	assert.Equal(t, fix.Path("MoonTours"), report.Dir)
	require.Len(t, report.Results, 9)
	for _, res := range report.Results {
		assert.Equal(t, OutcomeCreated, res.Outcome, res.Path)
	}

	pc, err := project.Load(report.Dir, "")
	require.NoError(t, err)
	assert.True(t, project.Check(pc.Dir, "").Healthy())
	assert.Contains(t, read(t, pc.Layout.Manifest()), `name = "moon-tours"`)
	assert.Contains(t, read(t, pc.Layout.Controllers()), "MarvinStructuredLLMOutput")
	assert.Contains(t, read(t, pc.Layout.PromptBase()), "{{ context }}")
}

func TestInitProjectTwiceLeavesTreeUntouched(t *testing.T) {
	fix := testutil.NewFixture(t)
	s, _ := initProject(t, fix, "Foo")
	before := fix.Snapshot(t)

	report, err := s.InitProject(fix.Root, "foo")
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, ErrProjectExists))
	var exists *ProjectExistsError
	require.True(t, errors.As(err, &exists))
	assert.Equal(t, fix.Path("Foo"), exists.Dir)
	assert.Equal(t, before, fix.Snapshot(t))
}

func TestInitProjectInvalidName(t *testing.T) {
	fix := testutil.NewFixture(t)
	s, _ := newScaffolder(t, fix.Options(t, false, false, false), templates.Embedded(), false)

	_, err := s.InitProject(fix.Root, "  !!! ")
	assert.True(t, errors.Is(err, names.ErrInvalidName))
	entries, readErr := os.ReadDir(fix.Root)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestAddTerminalFeatureNamesStayConsistent(t *testing.T) {
	fix := testutil.NewFixture(t)
	s, dir := initProject(t, fix, "Moon Tours")
	layout := project.NewLayout(dir, "")
	modelsBefore := read(t, layout.Models())

	report, err := s.AddTerminalFeature(dir, "strategy", "mission", "vision", "values")
	require.NoError(t, err)
	assert.Equal(t, "strategy", report.Prompt)
	require.Len(t, report.Results, 4)
	assert.Equal(t, OutcomeCreated, report.Results[0].Outcome)
	for _, res := range report.Results[1:] {
		assert.Equal(t, OutcomeAppended, res.Outcome)
	}

	prompt := filepath.Join(dir, "templates", "strategy.jinja2")
	assert.Contains(t, read(t, prompt), `{% extends "base.jinja2" %}`)

	models := read(t, layout.Models())
	require.True(t, strings.HasPrefix(models, modelsBefore+artifact.Separator))
	assert.Contains(t, models, "class Strategy(BaseModel):")
	assert.Contains(t, models, `mission: str = Field(..., description="Mission")`)
	assert.Contains(t, models, "values: str")

	controllers := read(t, layout.Controllers())
	assert.Contains(t, controllers, `prompt_template="strategy"`)
	assert.Contains(t, controllers, "models.Strategy")
	assert.Contains(t, controllers, "def create_strategy(context: str)")

	pipeline := read(t, layout.Pipeline())
	assert.Contains(t, pipeline, "def strategy()")
	assert.Contains(t, pipeline, "controllers.create_strategy(")
}

func TestAddLinkedFeatureUsesCompositePrompt(t *testing.T) {
	fix := testutil.NewFixture(t)
	s, dir := initProject(t, fix, "Moon Tours")
	layout := project.NewLayout(dir, "")

	report, err := s.AddLinkedFeature(dir, "strategy", "Scaled Agile Portfolio", "name", "description", "issues")
	require.NoError(t, err)
	assert.Equal(t, OpAddLinkedFeature, report.Operation)
	assert.Equal(t, "strategy-to-scaled-agile-portfolio", report.Prompt)

	prompt := read(t, filepath.Join(dir, "templates", "strategy-to-scaled-agile-portfolio.jinja2"))
	assert.Contains(t, prompt, "{{ strategy }}")

	controllers := read(t, layout.Controllers())
	assert.Contains(t, controllers, "def create_scaled_agile_portfolio_from_strategy(strategy: str) -> models.ScaledAgilePortfolio:")
	assert.Contains(t, controllers, `prompt_template="strategy-to-scaled-agile-portfolio"`)
	assert.Contains(t, read(t, layout.Pipeline()), "def scaled_agile_portfolio_from_strategy(strategy: dict)")

	terminal, err := s.AddTerminalFeature(dir, "scaled-agile-portfolio", "name")
	require.NoError(t, err)
	assert.Equal(t, "scaled-agile-portfolio", terminal.Prompt)
	assert.NotEqual(t, report.Prompt, terminal.Prompt)
}

func TestAddFeatureOutsideProjectWritesNothing(t *testing.T) {
	fix := testutil.NewProjectFixture(t)
	fix.Remove(t, filepath.Join("app", "pipeline.py"))
	before := fix.Snapshot(t)
	s, _ := newScaffolder(t, fix.Options(t, false, false, false), templates.Embedded(), false)

	_, err := s.AddTerminalFeature(fix.Root, "strategy", "mission")
	assert.True(t, errors.Is(err, project.ErrNotAProject))
	_, err = s.AddLinkedFeature(fix.Root, "strategy", "vision", "mission")
	assert.True(t, errors.Is(err, project.ErrNotAProject))
	assert.Equal(t, before, fix.Snapshot(t))
}

func TestAddFeatureDuplicatePromptContinues(t *testing.T) {
	fix := testutil.NewFixture(t)
	s, dir := initProject(t, fix, "Foo")
	_, err := s.AddTerminalFeature(dir, "strategy", "mission")
	require.NoError(t, err)

	report, err := s.AddTerminalFeature(dir, "Strategy", "vision")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPartialFailure))
	require.NotNil(t, report)

	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, ArtifactPrompt, failed[0].Artifact)
	assert.True(t, errors.Is(failed[0].Err, artifact.ErrArtifactExists))
	assert.Contains(t, err.Error(), failed[0].Path)
	assert.Equal(t, OutcomeAppended, report.Results[1].Outcome)
}

func TestMissingTemplateLeavesArtifactUntouched(t *testing.T) {
	fix := testutil.NewProjectFixture(t)
	repo := templates.NewMemoryRepository(map[string]string{
		templates.PromptCreateTerminal:      "Create a {{ .target_human_name }}.",
		templates.ControllersAppendTerminal: "def create_{{ .target_field_name }}(): ...",
		templates.PipelineAppendTerminal:    "def {{ .target_field_name }}(): ...",
	})
	s, _ := newScaffolder(t, fix.Options(t, false, false, false), repo, false)
	modelsBefore := fix.ReadFile(t, filepath.Join("app", "models.py"))

	report, err := s.AddTerminalFeature(fix.Root, "strategy", "mission")
	assert.True(t, errors.Is(err, ErrPartialFailure))
	require.Len(t, report.Failed(), 1)
	assert.True(t, errors.Is(report.Failed()[0].Err, templates.ErrTemplateNotFound))
	assert.Contains(t, report.Failed()[0].Error, templates.ModelsAppendClass)

	assert.Equal(t, modelsBefore, fix.ReadFile(t, filepath.Join("app", "models.py")))
	assert.Contains(t, fix.ReadFile(t, filepath.Join("app", "controllers.py")), "def create_strategy(): ...")
	assert.Equal(t, "Create a Strategy.", fix.ReadFile(t, filepath.Join("templates", "strategy.jinja2")))
}

func TestRenderErrorReportedPerArtifact(t *testing.T) {
	fix := testutil.NewProjectFixture(t)
	repo := templates.NewMemoryRepository(map[string]string{
		templates.PromptCreateTerminal:      "{{ .unknown_variable }}",
		templates.ModelsAppendClass:         "class {{ .target_type_name }}: pass",
		templates.ControllersAppendTerminal: "def create_{{ .target_field_name }}(): ...",
		templates.PipelineAppendTerminal:    "def {{ .target_field_name }}(): ...",
	})
	s, _ := newScaffolder(t, fix.Options(t, false, false, false), repo, false)

	report, err := s.AddTerminalFeature(fix.Root, "strategy", "mission")
	assert.Error(t, err)
	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.True(t, errors.Is(failed[0].Err, templates.ErrTemplateRender))
	_, statErr := os.Stat(fix.Path("templates", "strategy.jinja2"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDryRunWritesNothing(t *testing.T) {
	fix := testutil.NewFixture(t)
	s, writer := newScaffolder(t, fix.Options(t, false, false, true), templates.Embedded(), true)

	report, err := s.InitProject(fix.Root, "Foo")
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Len(t, writer.Changes(), 9)
	entries, readErr := os.ReadDir(fix.Root)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestFeatureAttributeCount(t *testing.T) {
	fix := testutil.NewProjectFixture(t)
	s, _ := newScaffolder(t, fix.Options(t, false, false, false), templates.Embedded(), false)
	before := fix.Snapshot(t)

	_, err := s.AddTerminalFeature(fix.Root, "strategy")
	assert.True(t, errors.Is(err, ErrInvalidFeature))
	_, err = s.AddTerminalFeature(fix.Root, "strategy", "a", "b", "c", "d")
	var countErr *AttributeCountError
	require.True(t, errors.As(err, &countErr))
	assert.Equal(t, 4, countErr.Got)
	assert.Equal(t, before, fix.Snapshot(t))
}

func TestAddFeatureWithParsedSpec(t *testing.T) {
	fix := testutil.NewFixture(t)
	s, dir := initProject(t, fix, "Foo")
	spec, err := NewTerminalFeature("vision", "horizon", "audience")
	require.NoError(t, err)

	report, err := s.AddFeature(dir, spec)
	require.NoError(t, err)
	assert.Equal(t, OpAddTerminalFeature, report.Operation)
	models := read(t, filepath.Join(dir, "app", "models.py"))
	assert.Contains(t, models, "audience: str")
	assert.NotContains(t, models, "description=\"\"")
}

func TestProcessorDesignator(t *testing.T) {
	fix := testutil.NewFixture(t)
	opts := fix.Options(t, false, false, false)
	opts.Processor = "Outlines"
	s, _ := newScaffolder(t, opts, templates.Embedded(), false)
	report, err := s.InitProject(fix.Root, "Foo")
	require.NoError(t, err)

	_, err = s.AddTerminalFeature(report.Dir, "strategy", "mission")
	require.NoError(t, err)
	assert.Contains(t, read(t, filepath.Join(report.Dir, "app", "controllers.py")), "processor = OutlinesStructuredLLMOutput(")
}
