package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/langcontroller/langcontroller/internal/artifact"
	"github.com/langcontroller/langcontroller/internal/config"
	"github.com/langcontroller/langcontroller/internal/preview"
	"github.com/langcontroller/langcontroller/internal/scaffold"
	"github.com/langcontroller/langcontroller/internal/templates"
	"github.com/langcontroller/langcontroller/internal/util"
	"github.com/langcontroller/langcontroller/internal/version"
)

func options() (*config.Options, error) {
	return config.Current()
}

func respond(cmd *cobra.Command, opts *config.Options, success bool, message string, data interface{}) error {
	if opts.JSONOutput {
		env := util.Envelope{Success: success, Message: message, DryRun: opts.DryRun, Data: data}
		return env.Encode(cmd.OutOrStdout())
	}
	if message != "" {
		fmt.Fprintln(cmd.OutOrStdout(), message)
	}
	return nil
}

// templatePack is the repository commands render from, plus where it came from.
type templatePack struct {
	repo      templates.Repository
	dir       string
	manifest  *templates.Manifest
	extension string
}

// loadTemplatePack returns the embedded pack, layered under the configured
// template directory when one is set.
func loadTemplatePack(opts *config.Options) (*templatePack, error) {
	embedded := templates.Embedded()
	if opts.TemplateDir == "" {
		return &templatePack{repo: embedded, extension: templates.DefaultPromptExtension}, nil
	}
	dir, err := templates.NewDirRepository(opts.TemplateDir, version.Current)
	if err != nil {
		return nil, err
	}
	return &templatePack{
		repo:      templates.Layered(dir, embedded),
		dir:       dir.Dir,
		manifest:  dir.Manifest,
		extension: dir.Manifest.Extension(),
	}, nil
}

// newScaffolder wires a scaffolder for one invocation.
func newScaffolder(opts *config.Options) (*scaffold.Scaffolder, *artifact.Writer, error) {
	pack, err := loadTemplatePack(opts)
	if err != nil {
		return nil, nil, err
	}
	renderer := templates.NewRenderer(pack.repo, opts.Logger())
	writer := artifact.NewWriter(opts.Logger(), opts.DryRun)
	return scaffold.New(opts, renderer, writer, pack.extension), writer, nil
}

// finishScaffold prints a scaffold report (and, in dry-run mode, the planned
// diffs) and converts the operation error into an exit code.
func finishScaffold(cmd *cobra.Command, opts *config.Options, writer *artifact.Writer, report *scaffold.Report, opErr error) error {
	if report == nil {
		return classify(opErr)
	}

	var plan *preview.Plan
	if writer.DryRun() {
		var err error
		plan, err = preview.FromChanges(report.Dir, writer.Changes())
		if err != nil {
			return WrapCLIError(ExitCodeUnknown, err)
		}
	}

	failed := len(report.Failed())
	message := fmt.Sprintf("%s: %d artifacts written in %s", report.Operation, len(report.Results)-failed, report.Dir)
	if failed > 0 {
		message = fmt.Sprintf("%s: %d of %d artifacts failed in %s", report.Operation, failed, len(report.Results), report.Dir)
	}
	if report.DryRun {
		message = "Dry-run: " + message
	}

	if opts.JSONOutput {
		payload := map[string]interface{}{
			"report": report,
		}
		if plan != nil {
			payload["changes"] = plan.Ordered()
		}
		if err := respond(cmd, opts, failed == 0, message, payload); err != nil {
			return err
		}
		return classify(opErr)
	}

	out := cmd.OutOrStdout()
	for _, res := range report.Results {
		rel, err := filepath.Rel(report.Dir, res.Path)
		if err != nil {
			rel = res.Path
		}
		if res.Error != "" {
			fmt.Fprintf(out, "%s %s: %s\n", util.StatusMarker(string(res.Outcome)), rel, res.Error)
			continue
		}
		fmt.Fprintf(out, "%s %s\n", util.StatusMarker(string(res.Outcome)), rel)
	}
	if plan != nil {
		for _, d := range plan.Ordered() {
			fmt.Fprint(out, util.ColorizeDiff(d.UnifiedDiff))
		}
	}
	fmt.Fprintln(out, message)
	return classify(opErr)
}
