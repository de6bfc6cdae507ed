package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/langcontroller/langcontroller/internal/config"
)

var (
	rootCmd = &cobra.Command{
		Use:           "langcontroller",
		Short:         "Scaffold LLM application projects",
		Long:          "langcontroller generates and grows LLM application projects: structured models, prompt templates, controllers and pipelines kept in step with each other.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Current(); err == nil {
				return nil
			}
			opts := config.New()
			if err := opts.Init(flagRoot, flagJSON, flagVerbose, flagDryRun, flagLogFile); err != nil {
				return err
			}
			store, err := config.LoadStore(flagConfig)
			if err != nil {
				return WrapCLIError(ExitCodeValidation, err)
			}
			opts.ApplySettings(store, flagTemplates, flagProcessor)
			cmd.SetContext(opts.WithContext(cmd.Context()))
			return nil
		},
	}

	flagJSON      bool
	flagVerbose   bool
	flagDryRun    bool
	flagRoot      string
	flagLogFile   string
	flagTemplates string
	flagProcessor string
	flagConfig    string
)

// Execute runs the root command.
func Execute() error {
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		return err
	}
	opts, err := config.Current()
	if err == nil {
		if cerr := opts.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "failed to close resources: %v\n", cerr)
		}
	}
	return nil
}

// RootCommand returns the configured root command; primarily for testing scenarios.
func RootCommand() *cobra.Command {
	registerCommands()
	return rootCmd
}

// registerCommands ensures all subcommands are attached before execution.
func registerCommands() {
	if len(rootCmd.Commands()) > 0 {
		return
	}
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "Render and show diffs without modifying files")
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "Working directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "File to write verbose logs")
	rootCmd.PersistentFlags().StringVar(&flagTemplates, "templates", "", "Template pack directory overriding the built-in templates")
	rootCmd.PersistentFlags().StringVar(&flagProcessor, "processor", "", "Structured-output processor generated controllers use (default: Marvin)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Settings file (default: ~/.langcontroller/config.yaml)")

	for _, op := range operations {
		rootCmd.AddCommand(op.build())
	}
}
