// ABOUTME: Compare command
// ABOUTME: Scores SML attempts and diffs the results against published reference scores

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/harper/slm/internal/burdell"
	"github.com/harper/slm/internal/mission"
	"github.com/harper/slm/internal/trackio"
	"github.com/harper/slm/internal/ui"
	"github.com/spf13/cobra"
)

var (
	compareScores  string
	compareVerbose bool
)

var compareCmd = &cobra.Command{
	Use:   "compare <file.sml|dir>...",
	Short: "Compare our scores with reference scores",
	Long: `Score SML attempts and print a markdown table of our Burdell scores next to
their difference from the reference scores. Each attempt's reference scores
are read from the file with the same name and a .json extension, or from
--scores when a single attempt is given. A directory argument compares every
.sml file in it.

Every leniency the reference lists is scored with the same leniency.

Examples:
  slm compare fixtures/
  slm compare archie-iom.sml --scores archie-iom.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := smlPaths(args)
		if err != nil {
			return err
		}
		if compareScores != "" && len(paths) != 1 {
			return fmt.Errorf("--scores needs exactly one SML file, got %d", len(paths))
		}

		engines := map[float64]*mission.Engine{}
		var rows []ui.ComparisonRow
		var notes []string

		for _, path := range paths {
			scoresPath := compareScores
			if scoresPath == "" {
				scoresPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
			}

			src, err := trackio.Open(path, trackio.FormatSML)
			if err != nil {
				return err
			}
			line, err := src.SML.TargetLine()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			ref, err := trackio.OpenScores(scoresPath)
			if err != nil {
				return err
			}

			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			for _, entry := range ref.Scores {
				leniency := entry.Leniency()
				e, err := engineFor(engines, leniency)
				if err != nil {
					return err
				}

				report, err := e.Evaluate(commandContext(cmd), line, src.Track)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				rowName := name
				if leniency > 0 {
					rowName = fmt.Sprintf("%s (%g%%)", name, leniency)
				}

				reference := make(map[burdell.Level]float64, len(burdell.Levels))
				for _, l := range burdell.Levels {
					reference[l] = entry.Scores.For(l)
				}
				rows = append(rows, ui.ComparisonRow{
					Name:      rowName,
					Ours:      report.Scores,
					Reference: reference,
				})

				if compareVerbose {
					tier, err := entry.Tier()
					if err != nil {
						return fmt.Errorf("%s: %w", scoresPath, err)
					}
					notes = append(notes, fmt.Sprintf("%s: route %.1f km (ref %.1f), max deviation %.1f m (ref %.1f), medal %s (ref %s)",
						rowName, report.LineLength/1000, ref.RouteLength,
						report.MaxDeviation, entry.MaxDeviation, report.Medal, tier))
				}
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, ui.FormatComparisonTable(rows))
		if len(notes) > 0 {
			fmt.Fprintln(out)
			for _, n := range notes {
				fmt.Fprintln(out, n)
			}
		}
		return nil
	},
}

// engineFor returns an engine scoring every level with the given leniency.
func engineFor(cache map[float64]*mission.Engine, leniency float64) (*mission.Engine, error) {
	if e, ok := cache[leniency]; ok {
		return e, nil
	}

	m := engine.Model()
	levels := make(map[burdell.Level]burdell.Settings, len(m.Levels))
	for l, s := range m.Levels {
		s.Leniency = leniency
		levels[l] = s
	}
	m.Levels = levels

	e, err := mission.NewEngine(m)
	if err != nil {
		return nil, fmt.Errorf("leniency %g: %w", leniency, err)
	}
	cache[leniency] = e
	return e, nil
}

// smlPaths expands directories to the sorted .sml files they contain.
func smlPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		matches, err := filepath.Glob(filepath.Join(arg, "*.sml"))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .sml files found")
	}
	return paths, nil
}

func init() {
	compareCmd.Flags().StringVar(&compareScores, "scores", "", "reference scores file (default: the SML path with a .json extension)")
	compareCmd.Flags().BoolVarP(&compareVerbose, "verbose", "v", false, "also compare route length, max deviation and medal")

	rootCmd.AddCommand(compareCmd)
}
