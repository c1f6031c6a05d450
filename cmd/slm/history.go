// ABOUTME: History commands for saved attempts
// ABOUTME: List, show, remove, export and import attempts kept in the SQLite history

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harper/slm/internal/geojson"
	"github.com/harper/slm/internal/models"
	"github.com/harper/slm/internal/storage"
	"github.com/harper/slm/internal/ui"
	"github.com/spf13/cobra"
)

// durationRegex matches relative duration strings like "24h", "7d", "1w", "1m".
var durationRegex = regexp.MustCompile(`^(\d+)([hdwm])$`)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h"},
	Short:   "Manage saved attempts",
}

var historyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved attempts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openDB()
		if err != nil {
			return err
		}

		since, _ := cmd.Flags().GetString("since")
		var attempts []*models.Attempt
		if since != "" {
			t, err := parseSince(since)
			if err != nil {
				return fmt.Errorf("invalid --since value: %w", err)
			}
			attempts, err = repo.ListAttemptsSince(t)
			if err != nil {
				return fmt.Errorf("failed to list attempts: %w", err)
			}
		} else {
			attempts, err = repo.ListAttempts()
			if err != nil {
				return fmt.Errorf("failed to list attempts: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		if len(attempts) == 0 {
			fmt.Fprintln(out, "No attempts saved yet. Use 'slm score <file> --save <name>' to save one.")
			return nil
		}
		for _, a := range attempts {
			fmt.Fprintln(out, ui.FormatAttempt(a))
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <name|id>",
	Short: "Show one saved attempt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openDB()
		if err != nil {
			return err
		}
		a, err := findAttempt(repo, args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.FormatAttemptDetail(a))
		return nil
	},
}

var historyRemoveCmd = &cobra.Command{
	Use:     "remove <name|id>",
	Aliases: []string{"rm"},
	Short:   "Remove a saved attempt and its track",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openDB()
		if err != nil {
			return err
		}
		a, err := findAttempt(repo, args[0])
		if err != nil {
			return err
		}

		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			prompt := fmt.Sprintf("Remove '%s' (%s)? [y/N] ", a.Name, a.ID.String()[:8])
			if !confirmed(cmd.InOrStdin(), cmd.ErrOrStderr(), prompt) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Canceled.")
				return nil
			}
		}

		if err := repo.DeleteAttempt(a.ID); err != nil {
			return fmt.Errorf("failed to remove attempt: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), color.GreenString("✓ Removed %s", a.Name))
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export [name|id]",
	Short: "Export saved attempts as YAML, markdown or GeoJSON",
	Long: `Export the attempt history.

yaml is a full backup including tracks, restorable with 'slm history import'.
markdown is a table of every attempt. geojson writes the target lines of all
attempts, or, given one attempt, its line, track and per-point deviations.

Examples:
  slm history export -f yaml -o backup.yaml
  slm history export -f markdown
  slm history export "isle of man" -f geojson -o iom.geojson`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		if len(args) == 1 && format != "geojson" {
			return fmt.Errorf("a single attempt can only be exported as geojson")
		}

		repo, err := openDB()
		if err != nil {
			return err
		}

		var data []byte
		switch format {
		case "yaml":
			data, err = storage.ExportToYAML(repo)
		case "markdown":
			data, err = storage.ExportToMarkdown(repo)
		case "geojson":
			data, err = exportHistoryGeoJSON(cmd, repo, args)
		default:
			return fmt.Errorf("unsupported format: %s (use 'yaml', 'markdown', or 'geojson')", format)
		}
		if err != nil {
			return fmt.Errorf("failed to export %s: %w", format, err)
		}

		return writeOutput(cmd, output, data)
	},
}

var historyImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import attempts from a YAML backup",
	Long: `Import attempts from a backup written by 'slm history export -f yaml'.

Attempts already in the history are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		repo, err := openDB()
		if err != nil {
			return err
		}
		n, err := storage.ImportFromYAML(repo, data)
		if err != nil {
			return fmt.Errorf("failed to import: %w", err)
		}

		fmt.Fprintln(cmd.ErrOrStderr(), color.GreenString("✓ Imported %d attempts", n))
		return nil
	},
}

func exportHistoryGeoJSON(cmd *cobra.Command, repo storage.Repository, args []string) ([]byte, error) {
	if len(args) == 0 {
		attempts, err := repo.ListAttempts()
		if err != nil {
			return nil, err
		}
		return geojson.ToJSONIndent(geojson.FromAttempts(attempts))
	}

	a, err := findAttempt(repo, args[0])
	if err != nil {
		return nil, err
	}
	track, err := repo.GetTrack(a.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("attempt '%s' has no saved track", a.Name)
		}
		return nil, err
	}
	analysis, err := engine.Analyze(commandContext(cmd), a.Line, track)
	if err != nil {
		return nil, err
	}
	return geojson.ToJSONIndent(geojson.FromAnalysis(analysis, geojson.Options{}))
}

// findAttempt resolves an attempt by ID, then by the latest with that name.
func findAttempt(repo storage.Repository, ref string) (*models.Attempt, error) {
	if id, err := uuid.Parse(ref); err == nil {
		a, err := repo.GetAttempt(id)
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}

	a, err := repo.GetAttemptByName(ref)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("attempt '%s' not found", ref)
		}
		return nil, err
	}
	return a, nil
}

// confirmed asks a yes/no question and reports whether the answer was yes.
func confirmed(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	response, _ := bufio.NewReader(in).ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// writeOutput writes data to the named file, or to stdout when empty.
func writeOutput(cmd *cobra.Command, output string, data []byte) error {
	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil { //nolint:gosec // 0644 is intentional for data export files
		return fmt.Errorf("failed to write file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
	return nil
}

// parseSince parses relative durations like "24h", "7d", "1w" and absolute
// dates in RFC3339 or YYYY-MM-DD format.
func parseSince(s string) (time.Time, error) {
	if matches := durationRegex.FindStringSubmatch(s); matches != nil {
		num, err := strconv.Atoi(matches[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid number in duration '%s': %w", s, err)
		}

		var unit time.Duration
		switch matches[2] {
		case "h":
			unit = time.Hour
		case "d":
			unit = 24 * time.Hour
		case "w":
			unit = 7 * 24 * time.Hour
		case "m":
			unit = 30 * 24 * time.Hour
		}
		return time.Now().Add(-time.Duration(num) * unit), nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("use a duration like 24h, 7d, 1w or a date like 2024-12-01")
}

func init() {
	historyListCmd.Flags().String("since", "", "only attempts since a duration ago (24h, 7d) or a date")
	historyRemoveCmd.Flags().Bool("confirm", false, "skip confirmation prompt")
	historyExportCmd.Flags().StringP("format", "f", "yaml", "output format (yaml, markdown, geojson)")
	historyExportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyRemoveCmd, historyExportCmd, historyImportCmd)
	rootCmd.AddCommand(historyCmd)
}
