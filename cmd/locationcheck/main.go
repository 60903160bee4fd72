package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/daytour/planner/internal/core/validation"
)

// errRejected signals an invalid location; the verdict itself is already printed.
var errRejected = errors.New("location rejected")

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:   "locationcheck <city> <lat> <lng>",
	Short: "Check whether a location is a valid day-tour start",
	Long: "Validates a [latitude, longitude] pair against a city's bounding box and " +
		"maximum distance from the city center. Exits 1 when the location is rejected.",
	Example: "  locationcheck -- san_francisco 37.7749 -122.4194\n" +
		"  locationcheck range seoul\n" +
		"  locationcheck cities",
	Args:          cobra.ExactArgs(3),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("latitude %q: %w", args[1], err)
		}
		lng, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("longitude %q: %w", args[2], err)
		}

		result := validation.IsLocationValid([]float64{lat, lng}, args[0])

		out := cmd.OutOrStdout()
		if jsonOutput {
			if err := json.NewEncoder(out).Encode(result); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(out, result.Message())
		}

		if !result.IsValid() {
			return errRejected
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	rootCmd.AddCommand(rangeCmd, citiesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
