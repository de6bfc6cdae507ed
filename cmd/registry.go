package cmd

import (
	"github.com/spf13/cobra"

	"github.com/langcontroller/langcontroller/internal/scaffold"
)

// operation binds a command name to the constructor of its handler.
type operation struct {
	name  string
	build func() *cobra.Command
}

// operations is the complete command set, in help order.
var operations = []operation{
	{"about", newAboutCommand},
	{scaffold.OpInitProject, newMakeProjectCommand},
	{scaffold.OpAddTerminalFeature, newMakeFeatureNoSourceCommand},
	{scaffold.OpAddLinkedFeature, newMakeFeatureWithSourceCommand},
	{"prompts", newPromptsCommand},
	{"doctor", newDoctorCommand},
	{"templates", newTemplatesCommand},
	{"config", newConfigCommand},
	{"version", newVersionCommand},
	{"upgrade", newUpgradeCommand},
}

// Operations lists the registered command names.
func Operations() []string {
	out := make([]string, 0, len(operations))
	for _, op := range operations {
		out = append(out, op.name)
	}
	return out
}
