package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daytour/planner/internal/core/cities"
	"github.com/daytour/planner/internal/core/validation"
)

var rangeCmd = &cobra.Command{
	Use:   "range <city>",
	Short: "Print the admissible area of a city",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg := validation.LocationRangeMessage(args[0])
		_, known := cities.Lookup(args[0])

		out := cmd.OutOrStdout()
		if jsonOutput {
			if err := json.NewEncoder(out).Encode(map[string]any{"city": args[0], "message": msg, "known": known}); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(out, msg)
		}

		if !known {
			return errRejected
		}
		return nil
	},
}
