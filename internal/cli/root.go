package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cadence command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cadence",
		Short: "Frame-accurate gameplay clock engine",
		Long: `Cadence derives a stable gameplay time source from an unreliable
media playback clock, with configurable offsets, variable rate,
pause/resume, seeking and asynchronous restarts.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newPlayCmd(),
		newServeCmd(),
		newInitCmd(),
	)

	return root
}
