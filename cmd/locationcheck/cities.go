package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/daytour/planner/internal/core/cities"
)

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "List supported cities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		all := cities.All()
		out := cmd.OutOrStdout()

		if jsonOutput {
			return json.NewEncoder(out).Encode(all)
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tNAME\tCENTER\tRADIUS KM\tMODES")
		for _, c := range all {
			modes := make([]string, len(c.TransportModes))
			for i, m := range c.TransportModes {
				modes[i] = string(m)
			}
			fmt.Fprintf(w, "%s\t%s\t%.4f, %.4f\t%g\t%s\n",
				c.Key, c.Name, c.Center.Lat, c.Center.Lng, c.MaxRadiusKm, strings.Join(modes, ","))
		}
		return w.Flush()
	},
}
