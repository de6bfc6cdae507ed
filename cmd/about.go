package cmd

import "github.com/spf13/cobra"

const aboutText = "langcontroller scaffolds LLM applications: each feature gets a prompt template, a structured model, a controller and a pipeline step."

func newAboutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Describe what langcontroller does",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options()
			if err != nil {
				return err
			}
			return respond(cmd, opts, true, aboutText, nil)
		},
	}
}
