package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/velvetkeys/cadence/internal/config"
)

func newInitCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write an example config file",
		Example: `  cadence init
  cadence init --path my-config.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteExample(path); err != nil {
				return fmt.Errorf("writing example config: %w", err)
			}
			fmt.Printf("wrote example config to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "cadence.json", "where to write the example config")

	return cmd
}
