package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/langcontroller/langcontroller/internal/artifact"
	"github.com/langcontroller/langcontroller/internal/preview"
	"github.com/langcontroller/langcontroller/internal/templates"
	"github.com/langcontroller/langcontroller/internal/util"
	"github.com/langcontroller/langcontroller/internal/version"
)

func newTemplatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect, export and compare template packs",
	}
	cmd.AddCommand(newTemplatesListCommand())
	cmd.AddCommand(newTemplatesExportCommand())
	cmd.AddCommand(newTemplatesDiffCommand())
	return cmd
}

// templateInfo is one template id and the pack serving it.
type templateInfo struct {
	ID     string `json:"id"`
	Source string `json:"source"`
}

func newTemplatesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List template ids and where each is loaded from",
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

			lister, ok := pack.repo.(templates.Lister)
			if !ok {
				return NewCLIError(ExitCodeUnknown, "template repository cannot list its templates")
			}
			ids, err := lister.IDs()
			if err != nil {
				return WrapCLIError(ExitCodeFilesystem, err)
			}

			infos := make([]templateInfo, 0, len(ids))
			for _, id := range ids {
				source := "built-in"
				if layered, ok := pack.repo.(*templates.LayeredRepository); ok && layered.Source(id) == "primary" {
					source = pack.dir
				}
				infos = append(infos, templateInfo{ID: id, Source: source})
			}

			if opts.JSONOutput {
				payload := map[string]interface{}{
					"templates": infos,
					"extension": pack.extension,
				}
				if pack.manifest != nil {
					payload["pack"] = pack.manifest
				}
				return respond(cmd, opts, true, fmt.Sprintf("%d templates", len(infos)), payload)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tSOURCE")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%s\n", info.ID, info.Source)
			}
			return w.Flush()
		},
	}
}

func newTemplatesExportCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Write the built-in templates to a directory as a starting point for a custom pack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options()
			if err != nil {
				return err
			}
			dest := args[0]
			if !filepath.IsAbs(dest) {
				dest = filepath.Join(opts.RootDir, dest)
			}

			files, err := templates.Embedded().Files()
			if err != nil {
				return WrapCLIError(ExitCodeUnknown, err)
			}
			paths := make([]string, 0, len(files))
			for p := range files {
				paths = append(paths, p)
			}
			sort.Strings(paths)

			mode := artifact.ModeCreate
			if force {
				mode = artifact.ModeReplace
			}
			writer := artifact.NewWriter(opts.Logger(), opts.DryRun)
			written := []string{}
			for _, p := range paths {
				target := filepath.Join(dest, filepath.FromSlash(p))
				if err := writer.Mkdir(filepath.Dir(target)); err != nil {
					return classify(err)
				}
				if err := writer.Write(target, string(files[p]), mode); err != nil {
					return classify(err)
				}
				written = append(written, p)
			}

			message := fmt.Sprintf("Exported %d templates to %s", len(written), dest)
			if opts.DryRun {
				message = fmt.Sprintf("Dry-run: %d templates would be exported to %s", len(written), dest)
			}
			return respond(cmd, opts, true, message, map[string]interface{}{
				"dir":     dest,
				"files":   written,
				"written": !opts.DryRun,
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite files that already exist")
	return cmd
}

func newTemplatesDiffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show how the configured template pack differs from the built-in one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options()
			if err != nil {
				return err
			}
			if opts.TemplateDir == "" {
				return NewCLIError(ExitCodeValidation, "no template pack configured (use --templates or 'config set templates <dir>')")
			}
			dir, err := templates.NewDirRepository(opts.TemplateDir, version.Current)
			if err != nil {
				return classify(err)
			}

			base, err := templates.Embedded().Files()
			if err != nil {
				return WrapCLIError(ExitCodeUnknown, err)
			}
			custom, err := dir.Files()
			if err != nil {
				return WrapCLIError(ExitCodeFilesystem, err)
			}
			delete(custom, templates.ManifestFile)

			plan, err := preview.CompareFiles(base, custom)
			if err != nil {
				return WrapCLIError(ExitCodeUnknown, err)
			}

			message := fmt.Sprintf("%d overridden, %d added, %d using built-in", len(plan.Modified), len(plan.Added), len(plan.Removed)+len(plan.Unchanged))
			if opts.JSONOutput {
				return respond(cmd, opts, true, message, plan)
			}
			out := cmd.OutOrStdout()
			for _, d := range plan.Ordered() {
				if d.Status == preview.FileStatusRemoved {
					continue
				}
				fmt.Fprint(out, util.ColorizeDiff(d.UnifiedDiff))
			}
			return respond(cmd, opts, true, message, nil)
		},
	}
}
