// Command icemap renders Great Lakes ice climatology maps from CIS
// shapefiles, serves them over HTTP, and checks the dataset layout.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globalFlags override the environment configuration when set.
type globalFlags struct {
	dataDir   string
	outputDir string
	strict    bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "icemap",
		Short: "Great Lakes ice climatology mapper",
		Long: `icemap classifies CIS ice climatology shapefiles into display categories
and renders them as interactive Leaflet maps, cached on disk by
(mode, variable, date).`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "CIS shapefile root (overrides ICEMAP_DATA_DIR)")
	root.PersistentFlags().StringVar(&flags.outputDir, "output-dir", "", "artifact cache root (overrides ICEMAP_OUTPUT_DIR)")
	root.PersistentFlags().BoolVar(&flags.strict, "strict", false, "reject malformed attribute codes (overrides STRICT_CODES)")

	root.AddCommand(
		newServeCmd(flags),
		newRenderCmd(flags),
		newWarmCmd(flags),
		newValidateCmd(flags),
		newCalendarCmd(),
	)
	return root
}
