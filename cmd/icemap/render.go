package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/ice-climatology-map/internal/domain"
)

func newRenderCmd(flags *globalFlags) *cobra.Command {
	var (
		mode      string
		variable  string
		date      string
		shapefile string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Ensure the map for one selection exists and print its path",
		Example: `  icemap render --mode individual --variable ctmed --date 1105
  icemap render --mode combined --variable icfrq --date 0212 --shapefile ./0212.shp`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel, err := domain.NewSelection(mode, variable, date)
			if err != nil {
				return err
			}
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck // best-effort flush

			if shapefile == "" {
				shapefile = a.dispatcher.Layout().ShapefilePath(sel)
			}
			res, err := a.dispatcher.EnsureMapAt(cmd.Context(), sel, shapefile)
			if err != nil {
				return fmt.Errorf("render %s: %w", sel.Key(), err)
			}

			state := "generated"
			if res.Cached {
				state = "cached"
			}
			cmd.Printf("%s (%s)\n", res.Path, state)
			return nil
		},
	}

	d := domain.DefaultSelection
	cmd.Flags().StringVarP(&mode, "mode", "m", string(d.Mode), "dataset mode: combined or individual")
	cmd.Flags().StringVarP(&variable, "variable", "v", string(d.Variable), "ctmed, cpmed, icfrq, pimed, or prmed")
	cmd.Flags().StringVarP(&date, "date", "d", string(d.Date), "MMDD week identifier, see 'icemap calendar'")
	cmd.Flags().StringVar(&shapefile, "shapefile", "", "explicit shapefile path instead of the data-dir layout")
	return cmd
}
