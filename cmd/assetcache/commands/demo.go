package commands

import (
	"fmt"

	"github.com/decker502/assetcache/pkg/embedded"
	"github.com/spf13/cobra"
)

func (c *CLI) newDemoCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "demo <dir>",
		Short: "Write the demo manifests and generated assets into <dir>/Resources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := embedded.WriteDemo(args[0], force)
			if err != nil {
				return err
			}
			for _, path := range written {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing files")
	return cmd
}
