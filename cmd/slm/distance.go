// ABOUTME: Distance command
// ABOUTME: Solves the geodesic inverse problem between two points

package main

import (
	"encoding/json"
	"fmt"

	"github.com/harper/slm/internal/models"
	"github.com/harper/slm/internal/ui"
	"github.com/spf13/cobra"
)

var distanceJSON bool

var distanceCmd = &cobra.Command{
	Use:     "distance <lat,lon> <lat,lon>",
	Aliases: []string{"d"},
	Short:   "Geodesic distance and bearings between two points",
	Long: `Distance in meters and bearings in degrees along the geodesic between
two points on the configured ellipsoid (WGS84 by default).

Examples:
  slm distance 52.606,-1.91787 52.6123,-1.65905
  slm distance -- -33.8688,151.2093 51.5074,-0.1278`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := models.ParseGeoPoint(args[0])
		if err != nil {
			return err
		}
		to, err := models.ParseGeoPoint(args[1])
		if err != nil {
			return err
		}

		sol, err := engine.Solver().SolveInverse(from, to)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if distanceJSON {
			data, err := json.MarshalIndent(sol, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode solution: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}
		fmt.Fprint(out, ui.FormatDistance(from, to, sol))
		return nil
	},
}

func init() {
	distanceCmd.Flags().BoolVar(&distanceJSON, "json", false, "print the solution as JSON")

	rootCmd.AddCommand(distanceCmd)
}
