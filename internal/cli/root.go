// Package cli wires the analysis tools and the HTTP server into one command.
package cli

import (
	"github.com/spf13/cobra"

	"metawards-uq/internal/config"
)

var force bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "metawards-uq",
		Short:         "Design, prepare and collate MetaWards uncertainty quantification runs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&force, "force", "f", false, "overwrite existing output files")

	root.AddCommand(
		newDesignCmd(),
		newScaleCmd(),
		newTransformCmd(),
		newPrepareCmd(),
		newCollateCmd(),
		newServeCmd(),
	)
	return root
}

// Execute runs the command named on the command line.
func Execute() error {
	return newRootCmd().Execute()
}

// loadConfig reads path, or returns the defaults when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(path)
}
