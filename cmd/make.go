package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/langcontroller/langcontroller/internal/scaffold"
)

func newMakeProjectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   scaffold.OpInitProject + " <name>",
		Short: "Create a new project directory with its skeleton files",
		Long:  "Create <TypeName>/ under the working directory with build and tool configuration, a base prompt, and empty models, controllers, pipeline and entry point modules. Fails if the directory already exists.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options()
			if err != nil {
				return err
			}
			s, writer, err := newScaffolder(opts)
			if err != nil {
				return classify(err)
			}
			report, err := s.InitProject(opts.RootDir, args[0])
			return finishScaffold(cmd, opts, writer, report, err)
		},
	}
}

func newMakeFeatureNoSourceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   scaffold.OpAddTerminalFeature + " <target> <attribute> [attribute] [attribute]",
		Short: "Add a feature generated from free context",
		Long:  "Add a prompt template named after <target>, a model class with up to three attributes, a controller and a pipeline step. Run inside a project directory.",
		Args:  rangeArgs(2, 1+scaffold.MaxAttributes),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options()
			if err != nil {
				return err
			}
			s, writer, err := newScaffolder(opts)
			if err != nil {
				return classify(err)
			}
			report, err := s.AddTerminalFeature(opts.RootDir, args[0], args[1:]...)
			return finishScaffold(cmd, opts, writer, report, err)
		},
	}
}

func newMakeFeatureWithSourceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   scaffold.OpAddLinkedFeature + " <source> <target> <attribute> [attribute] [attribute]",
		Short: "Add a feature derived from an upstream feature",
		Long:  "Add a prompt template named <source>-to-<target>, a model class for <target> with up to three attributes, a controller taking the source as input and a pipeline step. Run inside a project directory.",
		Args:  rangeArgs(3, 2+scaffold.MaxAttributes),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options()
			if err != nil {
				return err
			}
			s, writer, err := newScaffolder(opts)
			if err != nil {
				return classify(err)
			}
			report, err := s.AddLinkedFeature(opts.RootDir, args[0], args[1], args[2:]...)
			return finishScaffold(cmd, opts, writer, report, err)
		},
	}
}

// rangeArgs is cobra.RangeArgs with a validation exit code.
func rangeArgs(minArgs, maxArgs int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < minArgs || len(args) > maxArgs {
			return WrapCLIError(ExitCodeValidation, fmt.Errorf("accepts between %d and %d arg(s), received %d", minArgs, maxArgs, len(args)))
		}
		return nil
	}
}
