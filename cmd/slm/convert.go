// ABOUTME: Convert command
// ABOUTME: Rewrites any readable track as CSV or GPX

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/harper/slm/internal/trackio"
	"github.com/spf13/cobra"
)

var (
	convertFrom   string
	convertTo     string
	convertOutput string
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a track to CSV or GPX",
	Long: `Convert a track file (csv, gpx or sml) to CSV or GPX.

The output format comes from --to, then from the output file's extension,
and defaults to CSV.

Examples:
  slm convert walk.sml -o walk.csv
  slm convert track.csv --to gpx > track.gpx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var from trackio.Format
		if convertFrom != "" {
			f, err := trackio.ParseFormat(convertFrom)
			if err != nil {
				return err
			}
			from = f
		}

		to, err := convertTarget()
		if err != nil {
			return err
		}

		src, err := trackio.Open(args[0], from)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := trackio.Write(&buf, to, src.Name, src.Track); err != nil {
			return err
		}

		if convertOutput != "" {
			if err := os.WriteFile(convertOutput, buf.Bytes(), 0644); err != nil { //nolint:gosec // 0644 is intentional for data export files
				return fmt.Errorf("failed to write file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d points to %s\n", len(src.Track), convertOutput)
			return nil
		}

		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	},
}

// convertTarget picks the output format from --to or the output extension.
func convertTarget() (trackio.Format, error) {
	if convertTo != "" {
		return trackio.ParseFormat(convertTo)
	}
	if convertOutput != "" {
		if f, err := trackio.DetectFormat(convertOutput); err == nil {
			return f, nil
		}
	}
	return trackio.FormatCSV, nil
}

func init() {
	convertCmd.Flags().StringVarP(&convertFrom, "format", "f", "", "input format: csv, gpx or sml (default: from extension)")
	convertCmd.Flags().StringVarP(&convertTo, "to", "t", "", "output format: csv or gpx")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(convertCmd)
}
