// ABOUTME: Terminal UI formatting utilities
// ABOUTME: Provides human-readable output for reports, distances and attempt history

package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harper/slm/internal/burdell"
	"github.com/harper/slm/internal/geodesy"
	"github.com/harper/slm/internal/medal"
	"github.com/harper/slm/internal/mission"
	"github.com/harper/slm/internal/models"
)

var faint = color.New(color.Faint)

// FormatMedal colors a medal tier. None renders as a faint dash.
func FormatMedal(t medal.Tier) string {
	switch t {
	case medal.Platinum:
		return color.New(color.FgHiWhite, color.Bold).Sprint(t)
	case medal.Gold:
		return color.New(color.FgYellow, color.Bold).Sprint(t)
	case medal.Silver:
		return color.New(color.FgWhite).Sprint(t)
	case medal.Bronze:
		return color.New(color.FgRed).Sprint(t)
	default:
		return faint.Sprint("-")
	}
}

// FormatScore colors a Burdell score by band.
func FormatScore(score float64) string {
	s := fmt.Sprintf("%.1f %%", score)
	switch {
	case score >= 90:
		return color.GreenString(s)
	case score >= 50:
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}

// FormatReport renders an evaluation the way the command line prints it.
func FormatReport(r *mission.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Route length:             %.1f km\n", r.LineLength/1000)
	fmt.Fprintf(&sb, "Max. deviation:           %.1f m\n", r.MaxDeviation)
	fmt.Fprintf(&sb, "Medal rank:               %s\n", FormatMedal(r.Medal))
	for _, l := range burdell.Levels {
		label := fmt.Sprintf("Burdell score (%s):", l)
		fmt.Fprintf(&sb, "%-26s%s\n", label, FormatScore(r.Score(l)))
	}
	return sb.String()
}

// FormatReportDetails renders the extra figures shown with --verbose.
func FormatReportDetails(r *mission.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s -> %s\n", faint.Sprint("Line:"), r.Line.Start, r.Line.End)
	fmt.Fprintf(&sb, "%s %.1f km\n", faint.Sprint("Track length:"), r.TrackLength/1000)
	fmt.Fprintf(&sb, "%s %d (%d alongside the line)\n", faint.Sprint("Points:"), r.Points, r.InRange)
	return sb.String()
}

// FormatDistance renders a geodesic inverse solution.
func FormatDistance(from, to models.GeoPoint, s geodesy.Solution) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s -> %s\n", color.CyanString(from.String()), color.CyanString(to.String()))
	fmt.Fprintf(&sb, "Distance:         %.3f m\n", s.Distance)
	fmt.Fprintf(&sb, "Initial bearing:  %.4f°\n", s.InitialBearing)
	fmt.Fprintf(&sb, "Final bearing:    %.4f°\n", s.FinalBearing)
	return sb.String()
}

// FormatAttempt formats a saved attempt for list display.
func FormatAttempt(a *models.Attempt) string {
	if a == nil {
		return faint.Sprint("(invalid attempt)")
	}
	tier, _ := medal.ParseTier(a.Medal)
	return fmt.Sprintf("%s %s %.1f km, %.1f m, %s - %s",
		color.GreenString(a.Name),
		faint.Sprint(a.ID.String()[:8]),
		a.LineLength/1000,
		a.MaxDeviation,
		FormatMedal(tier),
		faint.Sprint(FormatRelativeTime(a.ScoredAt)))
}

// FormatAttemptDetail formats one attempt with its scores.
func FormatAttemptDetail(a *models.Attempt) string {
	if a == nil {
		return faint.Sprint("(invalid attempt)")
	}
	tier, _ := medal.ParseTier(a.Medal)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s\n", color.GreenString(a.Name), faint.Sprint(a.ID.String()))
	if a.Source != "" {
		fmt.Fprintf(&sb, "Source:                   %s\n", a.Source)
	}
	fmt.Fprintf(&sb, "Scored:                   %s\n", a.ScoredAt.Local().Format("Jan 2 2006, 3:04 PM"))
	fmt.Fprintf(&sb, "Line:                     %s -> %s\n", a.Line.Start, a.Line.End)
	fmt.Fprintf(&sb, "Points:                   %d\n", a.PointCount)
	fmt.Fprintf(&sb, "Route length:             %.1f km\n", a.LineLength/1000)
	fmt.Fprintf(&sb, "Max. deviation:           %.1f m\n", a.MaxDeviation)
	fmt.Fprintf(&sb, "Medal rank:               %s\n", FormatMedal(tier))
	for _, l := range burdell.Levels {
		score, ok := a.Scores[l.String()]
		if !ok {
			continue
		}
		label := fmt.Sprintf("Burdell score (%s):", l)
		fmt.Fprintf(&sb, "%-26s%s\n", label, FormatScore(score))
	}
	return sb.String()
}

// FormatRelativeTime formats a time as relative to now.
func FormatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	// Handle future times (clock skew, bad data)
	if diff < 0 {
		return color.YellowString("in the future")
	}

	if diff < time.Minute {
		return "just now"
	}
	if diff < time.Hour {
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	}
	if diff < 24*time.Hour {
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := int(diff.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}

// FormatScoreError renders the difference to a reference score with
// markdown emphasis growing with its magnitude: plain below 0.1, italic
// below 1 and bold from 1. A difference that rounds to zero is "-".
func FormatScoreError(diff float64) string {
	s := fmt.Sprintf("%.2f", diff)
	rounded, _ := strconv.ParseFloat(s, 64)
	abs := math.Abs(rounded)
	switch {
	case abs == 0:
		return "-"
	case abs < 0.1:
		return s
	case abs < 1:
		return "*" + s + "*"
	default:
		return "**" + s + "**"
	}
}

// ComparisonRow is one attempt scored by us and by a reference.
type ComparisonRow struct {
	Name      string
	Ours      map[burdell.Level]float64
	Reference map[burdell.Level]float64
}

// FormatComparisonTable renders rows as a markdown table of scores and
// their differences to the reference.
func FormatComparisonTable(rows []ComparisonRow) string {
	var sb strings.Builder

	header := []string{fmt.Sprintf("%-18s", "Mission")}
	align := []string{":" + strings.Repeat("-", 19)}
	for _, l := range burdell.Levels {
		name := strings.ToUpper(l.Key()[:1]) + l.Key()[1:]
		header = append(header, fmt.Sprintf("%-12s", name), fmt.Sprintf("%-12s", name+" err."))
		align = append(align, strings.Repeat("-", 13)+":", strings.Repeat("-", 13)+":")
	}
	fmt.Fprintf(&sb, "| %s |\n", strings.Join(header, " | "))
	fmt.Fprintf(&sb, "|%s|\n", strings.Join(align, "|"))

	for _, row := range rows {
		cells := []string{fmt.Sprintf("%-18s", row.Name)}
		for _, l := range burdell.Levels {
			ours := row.Ours[l]
			cells = append(cells,
				fmt.Sprintf("%12.2f", ours),
				fmt.Sprintf("%12s", FormatScoreError(ours-row.Reference[l])))
		}
		fmt.Fprintf(&sb, "| %s |\n", strings.Join(cells, " | "))
	}
	return sb.String()
}
