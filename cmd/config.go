package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/langcontroller/langcontroller/internal/config"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change persisted settings",
	}
	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options()
			if err != nil {
				return err
			}
			store, err := config.LoadStore(flagConfig)
			if err != nil {
				return WrapCLIError(ExitCodeValidation, err)
			}
			settings := store.All()

			if opts.JSONOutput {
				return respond(cmd, opts, true, store.Path(), map[string]interface{}{
					"file":     store.Path(),
					"settings": settings,
				})
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintf(w, "# %s\n", store.Path())
			for _, s := range settings {
				fmt.Fprintf(w, "%s\t%s\n", s.Key, s.Value)
			}
			return w.Flush()
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: fmt.Sprintf("Persist a setting (%s, %s)", config.KeyProcessor, config.KeyTemplates),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options()
			if err != nil {
				return err
			}
			store, err := config.LoadStore(flagConfig)
			if err != nil {
				return WrapCLIError(ExitCodeValidation, err)
			}
			if err := config.CheckKey(args[0]); err != nil {
				return classify(err)
			}
			if opts.DryRun {
				message := fmt.Sprintf("Dry-run: %s would be set to %q in %s", args[0], args[1], store.Path())
				return respond(cmd, opts, true, message, map[string]interface{}{"key": args[0], "value": args[1], "written": false})
			}
			if err := store.Set(args[0], args[1]); err != nil {
				return classify(err)
			}
			message := fmt.Sprintf("Set %s = %q in %s", args[0], args[1], store.Path())
			return respond(cmd, opts, true, message, map[string]interface{}{"key": args[0], "value": args[1], "written": true})
		},
	}
}
