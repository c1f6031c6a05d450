// ABOUTME: Export command for per-point deviation GeoJSON
// ABOUTME: Writes the target line, the track and every point's deviation

package main

import (
	"fmt"
	"os"

	"github.com/harper/slm/internal/geojson"
	"github.com/spf13/cobra"
)

var (
	exportInput  trackInput
	exportOutput string
	exportFeet   bool
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export a track's deviations as GeoJSON",
	Long: `Export a track measured against its target line as a GeoJSON
FeatureCollection: the target line, the track, and one Point per track point
with its deviation, distance made good and side of the line.

Examples:
  slm export ride.gpx -o ride.geojson
  slm export track.csv -s 52.606,-1.91787 -e 52.6123,-1.65905 --feet`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, line, err := exportInput.load(args[0])
		if err != nil {
			return err
		}

		analysis, err := engine.Analyze(commandContext(cmd), line, src.Track)
		if err != nil {
			return err
		}

		fc := geojson.FromAnalysis(analysis, geojson.Options{Feet: exportFeet})
		data, err := geojson.ToJSONIndent(fc)
		if err != nil {
			return fmt.Errorf("failed to generate GeoJSON: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0644); err != nil { //nolint:gosec // 0644 is intentional for data export files
				return fmt.Errorf("failed to write file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d points to %s\n", len(analysis.Projections), exportOutput)
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	exportInput.addFlags(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().BoolVar(&exportFeet, "feet", false, "include each point's projected foot on the line")

	rootCmd.AddCommand(exportCmd)
}
