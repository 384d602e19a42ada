package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/ice-climatology-map/internal/domain"
)

func newWarmCmd(flags *globalFlags) *cobra.Command {
	var (
		mode        string
		concurrency int
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Pre-render every (variable, date) map for a mode",
		RunE: func(cmd *cobra.Command, _ []string) error {
			modes, err := parseModes(mode)
			if err != nil {
				return err
			}
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck // best-effort flush

			if concurrency <= 0 {
				concurrency = a.cfg.WarmConcurrency
			}

			var sels []domain.Selection
			for _, m := range modes {
				sels = append(sels, domain.AllSelections(m)...)
			}

			report, err := a.dispatcher.Warm(cmd.Context(), sels, concurrency)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				cmd.Printf("generated %d, cached %d, failed %d in %s\n",
					report.Generated, report.Cached, len(report.Failed), report.Duration.Round(time.Millisecond))
				for _, f := range report.Failed {
					cmd.Printf("  %-28s %s\n", f.Selection.Key(), f.Message)
				}
			}
			if len(report.Failed) > 0 {
				return fmt.Errorf("%d of %d maps failed", len(report.Failed), len(sels))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "all", "combined, individual, or all")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "parallel renders (default WARM_CONCURRENCY)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func parseModes(s string) ([]domain.Mode, error) {
	if strings.EqualFold(s, "all") {
		return domain.Modes, nil
	}
	m, err := domain.ParseMode(s)
	if err != nil {
		return nil, err
	}
	return []domain.Mode{m}, nil
}
