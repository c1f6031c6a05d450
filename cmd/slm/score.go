// ABOUTME: Score command
// ABOUTME: Prints route length, max deviation, medal and Burdell scores for a track

package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/harper/slm/internal/mission"
	"github.com/harper/slm/internal/ui"
	"github.com/spf13/cobra"
)

var (
	scoreInput   trackInput
	scoreJSON    bool
	scoreVerbose bool
	scoreSave    string
)

var scoreCmd = &cobra.Command{
	Use:     "score <file>",
	Aliases: []string{"s"},
	Short:   "Score a track against its target line",
	Long: `Score a GPS track against a straight target line.

The target line comes from --start/--end, then from the line an SML file
declares, then from the first and last track points.

Examples:
  slm score ride.gpx
  slm score track.csv -s 52.606,-1.91787 -e 52.6123,-1.65905
  slm score walk.sml --json
  slm score ride.gpx --save "lickey hills"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, line, err := scoreInput.load(args[0])
		if err != nil {
			return err
		}

		report, err := engine.Evaluate(commandContext(cmd), line, src.Track)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if scoreJSON {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode report: %w", err)
			}
			fmt.Fprintln(out, string(data))
		} else {
			fmt.Fprint(out, ui.FormatReport(report))
			if scoreVerbose {
				fmt.Fprint(out, ui.FormatReportDetails(report))
			}
		}

		if scoreSave != "" {
			repo, err := openDB()
			if err != nil {
				return err
			}
			a := mission.NewAttempt(scoreSave, filepath.Base(args[0]), report)
			if err := repo.CreateAttempt(a, src.Track); err != nil {
				return fmt.Errorf("failed to save attempt: %w", err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), color.GreenString("✓ Saved %s (%s)", scoreSave, a.ID.String()[:8]))
		}

		return nil
	},
}

func init() {
	scoreInput.addFlags(scoreCmd)
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "print the report as JSON")
	scoreCmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "also print the line, track length and point counts")
	scoreCmd.Flags().StringVar(&scoreSave, "save", "", "save the attempt to history under this name")

	rootCmd.AddCommand(scoreCmd)
}
