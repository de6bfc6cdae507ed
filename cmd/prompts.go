package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/langcontroller/langcontroller/internal/artifact"
	"github.com/langcontroller/langcontroller/internal/indexer"
	"github.com/langcontroller/langcontroller/internal/preview"
	"github.com/langcontroller/langcontroller/internal/project"
	"github.com/langcontroller/langcontroller/internal/util"
)

func newPromptsCommand() *cobra.Command {
	var format string
	var model string
	var write bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "List the project's prompt templates with token estimates",
		Long:  "List every prompt template of the current project, split into terminal and linked prompts, with byte sizes and token estimates. With --write the Markdown index is stored as " + indexer.IndexFile + ".",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options()
			if err != nil {
				return err
			}
			pack, err := loadTemplatePack(opts)
			if err != nil {
				return classify(err)
			}
			pc, err := project.Load(opts.RootDir, pack.extension)
			if err != nil {
				return classify(err)
			}

			gen := indexer.NewGenerator(opts, pc.Layout, indexer.NewCounter(model))
			data, err := gen.Build()
			if err != nil {
				return WrapCLIError(ExitCodeFilesystem, err)
			}

			if !write {
				if opts.JSONOutput {
					return respond(cmd, opts, true, "prompt index", data)
				}
				content, err := gen.Render(data, format)
				if err != nil {
					return classify(err)
				}
				fmt.Fprint(cmd.OutOrStdout(), content)
				return nil
			}

			target := filepath.Join(pc.Layout.Root, indexer.IndexFile)
			var oldData *indexer.Data
			// #nosec G304 -- target is inside the loaded project directory
			if oldContent, err := os.ReadFile(target); err == nil {
				if oldData, err = indexer.ParseMarkdown(string(oldContent)); err != nil {
					opts.Logger().WithError(err).WithField("path", indexer.IndexFile).Warn("Ignoring unreadable prompt index")
				}
			} else if !errors.Is(err, fs.ErrNotExist) {
				opts.Logger().WithError(err).WithField("path", indexer.IndexFile).Warn("Could not read prompt index")
			}
			diff := indexer.ComputeDiff(oldData, data)

			content, err := gen.Markdown(data)
			if err != nil {
				return WrapCLIError(ExitCodeUnknown, err)
			}
			writer := artifact.NewWriter(opts.Logger(), opts.DryRun)
			if err := writer.Write(target, content, artifact.ModeReplace); err != nil {
				return classify(err)
			}

			payload := map[string]interface{}{
				"path":    indexer.IndexFile,
				"written": !opts.DryRun,
				"total":   len(data.Prompts),
				"tokens":  data.TotalTokens,
				"changes": diff,
			}
			if opts.JSONOutput {
				return respond(cmd, opts, true, "prompt index generated", payload)
			}
			if quiet && !diff.HasChanges() {
				return nil
			}
			return respond(cmd, opts, true, formatPromptsOutput(diff, data, writer, pc.Dir), nil)
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, md, json")
	cmd.Flags().StringVar(&model, "model", indexer.DefaultModel, "Model whose tokenizer estimates token counts (\""+indexer.ApproxModel+"\" for a character-based estimate)")
	cmd.Flags().BoolVar(&write, "write", false, "Write the Markdown index to "+indexer.IndexFile)
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only output if there are changes")
	return cmd
}

// formatPromptsOutput summarises an index write, with the planned diff in dry-run mode.
func formatPromptsOutput(diff *indexer.Diff, data *indexer.Data, writer *artifact.Writer, root string) string {
	var b strings.Builder
	if !diff.HasChanges() {
		b.WriteString(fmt.Sprintf("No changes (%d prompts indexed)\n", len(data.Prompts)))
	} else {
		b.WriteString(fmt.Sprintf("Changes detected: %s\n\n", diff.FormatSummary()))
		b.WriteString(diff.FormatVerbose())
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\nTotal: %d prompts, %d tokens (%s)\n", len(data.Prompts), data.TotalTokens, data.Encoding))

	if writer.DryRun() {
		if plan, err := preview.FromChanges(root, writer.Changes()); err == nil {
			for _, d := range plan.Ordered() {
				b.WriteString(util.ColorizeDiff(d.UnifiedDiff))
			}
		}
		b.WriteString(fmt.Sprintf("Dry-run: index would be written to %s", indexer.IndexFile))
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Index written to %s", indexer.IndexFile))
	return b.String()
}
