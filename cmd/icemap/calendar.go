package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/ice-climatology-map/internal/domain"
)

func newCalendarCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "List the valid date identifiers and variables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(domain.Calendar)
			}

			cmd.Println("Dates (MMDD):")
			for _, m := range domain.Calendar {
				ids := make([]string, len(m.Weeks))
				for i, w := range m.Weeks {
					ids[i] = m.Month + w
				}
				cmd.Printf("  %-9s %s\n", m.Name, strings.Join(ids, " "))
			}
			cmd.Println()
			cmd.Println("Variables:")
			for _, v := range domain.Variables {
				cmd.Printf("  %-6s %s\n", v, v.Alias())
			}
			cmd.Printf("\n%d dates x %d variables x %d modes = %d maps\n",
				len(domain.DateIDs()), len(domain.Variables), len(domain.Modes),
				len(domain.DateIDs())*len(domain.Variables)*len(domain.Modes))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the calendar as JSON")
	return cmd
}
