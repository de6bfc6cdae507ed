package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/langcontroller/langcontroller/internal/project"
	"github.com/langcontroller/langcontroller/internal/util"
)

func newDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Report which project files are present or missing",
		Long:  "Inspect the working directory and list every file a project needs, marking required ones that are missing. Never modifies anything and never fails on gaps.",
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

			report := project.Check(opts.RootDir, pack.extension)
			missing := report.MissingRequired()
			templateSource := "built-in"
			if pack.dir != "" {
				templateSource = pack.dir
			}

			message := fmt.Sprintf("%s is a project with %d prompts", report.Dir, report.Prompts)
			if len(missing) > 0 {
				message = fmt.Sprintf("%s is not a project: %d required entries missing", report.Dir, len(missing))
			}

			if opts.JSONOutput {
				payload := map[string]interface{}{
					"dir":       report.Dir,
					"entries":   report.Entries,
					"prompts":   report.Prompts,
					"missing":   missing,
					"healthy":   report.Healthy(),
					"templates": templateSource,
					"extension": pack.extension,
					"processor": opts.Processor,
				}
				return respond(cmd, opts, len(missing) == 0, message, payload)
			}

			out := cmd.OutOrStdout()
			for _, entry := range report.Entries {
				state := "present"
				switch {
				case entry.Present:
				case entry.Required:
					state = "missing"
				default:
					state = "optional"
				}
				line := fmt.Sprintf("%s %s", util.StatusMarker(state), entry.Name)
				if entry.Problem != "" {
					line += ": " + entry.Problem
				}
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(out, "Templates: %s (prompt extension %s)\n", templateSource, pack.extension)
			fmt.Fprintf(out, "Processor: %s\n", opts.Processor)
			return respond(cmd, opts, true, message, nil)
		},
	}
}
