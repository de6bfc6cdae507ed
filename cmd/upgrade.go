package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/langcontroller/langcontroller/internal/config"
	"github.com/langcontroller/langcontroller/internal/upgrade"
	"github.com/langcontroller/langcontroller/internal/version"
)

// upgrader is the subset of *upgrade.Upgrader the command drives.
type upgrader interface {
	Upgrade(ctx context.Context, currentVersion string) (*upgrade.Result, error)
}

var newUpgrader = func(opts *config.Options) upgrader {
	return upgrade.NewUpgrader(opts.Logger())
}

func newUpgradeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade langcontroller to the latest version",
		Long:  "Check for a newer version of langcontroller on GitHub releases and upgrade the binary if available.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options()
			if err != nil {
				return err
			}

			result, err := newUpgrader(opts).Upgrade(cmd.Context(), version.Current)
			if err != nil {
				payload := map[string]interface{}{
					"error":           err.Error(),
					"current_version": version.Current,
				}
				switch {
				case errors.Is(err, upgrade.ErrUnversionedBuild):
					payload["suggestion"] = "Install a released build to enable upgrades"
					if opts.JSONOutput {
						_ = respond(cmd, opts, false, "upgrade unavailable", payload)
					}
					return WrapCLIError(ExitCodeValidation, fmt.Errorf("upgrade unavailable: %w", err))
				case errors.Is(err, fs.ErrPermission):
					payload["suggestion"] = "Run 'sudo langcontroller upgrade' to upgrade the binary"
					if opts.JSONOutput {
						_ = respond(cmd, opts, false, "upgrade failed", payload)
					}
					return WrapCLIError(ExitCodeFilesystem, fmt.Errorf("upgrade failed: permission denied. Please run with sudo to upgrade the binary: %w", err))
				}
				if opts.JSONOutput {
					_ = respond(cmd, opts, false, "upgrade failed", payload)
				}
				return WrapCLIError(ExitCodeUnknown, fmt.Errorf("upgrade failed: %w", err))
			}

			if opts.JSONOutput {
				payload := map[string]interface{}{
					"message":         result.Message,
					"current_version": result.CurrentVersion,
					"latest_version":  result.LatestVersion,
					"upgraded":        result.Upgraded,
				}
				return respond(cmd, opts, true, "upgrade", payload)
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return nil
		},
	}
}
