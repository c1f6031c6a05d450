// ABOUTME: Export and import functionality for attempt history
// ABOUTME: Supports YAML backup format and markdown export

package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/slm/internal/models"
	"gopkg.in/yaml.v3"
)

// BackupVersion is the current backup format version.
const BackupVersion = "1.0"

// BackupTool identifies backups written by slm.
const BackupTool = "slm"

// Backup represents the YAML backup format.
type Backup struct {
	Version    string          `yaml:"version"`
	ExportedAt time.Time       `yaml:"exported_at"`
	Tool       string          `yaml:"tool"`
	Attempts   []AttemptBackup `yaml:"attempts"`
}

// AttemptBackup represents an attempt in the backup format.
type AttemptBackup struct {
	ID           string             `yaml:"id"`
	Name         string             `yaml:"name"`
	Source       string             `yaml:"source,omitempty"`
	Line         models.TargetLine  `yaml:"line"`
	PointCount   int                `yaml:"point_count"`
	LineLength   float64            `yaml:"line_length"`
	TrackLength  float64            `yaml:"track_length"`
	MaxDeviation float64            `yaml:"max_deviation"`
	Medal        string             `yaml:"medal"`
	Scores       map[string]float64 `yaml:"scores"`
	ScoredAt     time.Time          `yaml:"scored_at"`
	Track        models.Track       `yaml:"track,omitempty"`
}

// ExportToYAML exports all attempts and their tracks to YAML format.
func ExportToYAML(repo Repository) ([]byte, error) {
	attempts, err := repo.ListAttempts()
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	backup := Backup{
		Version:    BackupVersion,
		ExportedAt: time.Now().UTC(),
		Tool:       BackupTool,
		Attempts:   make([]AttemptBackup, len(attempts)),
	}

	for i, a := range attempts {
		track, err := repo.GetTrack(a.ID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("get track for %s: %w", a.Name, err)
		}

		backup.Attempts[i] = AttemptBackup{
			ID:           a.ID.String(),
			Name:         a.Name,
			Source:       a.Source,
			Line:         a.Line,
			PointCount:   a.PointCount,
			LineLength:   a.LineLength,
			TrackLength:  a.TrackLength,
			MaxDeviation: a.MaxDeviation,
			Medal:        a.Medal,
			Scores:       a.Scores,
			ScoredAt:     a.ScoredAt,
			Track:        track,
		}
	}

	return yaml.Marshal(backup)
}

// ImportFromYAML restores attempts from a YAML backup. Attempts whose ID
// already exists are skipped. Returns the number imported.
func ImportFromYAML(repo Repository, data []byte) (int, error) {
	var backup Backup
	if err := yaml.Unmarshal(data, &backup); err != nil {
		return 0, fmt.Errorf("parse yaml: %w", err)
	}

	if backup.Version != BackupVersion {
		return 0, fmt.Errorf("unsupported backup version: %s (expected %s)", backup.Version, BackupVersion)
	}

	if backup.Tool != BackupTool {
		return 0, fmt.Errorf("wrong tool: %s (expected %s)", backup.Tool, BackupTool)
	}

	imported := 0
	for _, ab := range backup.Attempts {
		id, err := uuid.Parse(ab.ID)
		if err != nil {
			return imported, fmt.Errorf("invalid attempt ID %s: %w", ab.ID, err)
		}

		if _, err := repo.GetAttempt(id); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return imported, err
		}

		scores := ab.Scores
		if scores == nil {
			scores = make(map[string]float64)
		}

		a := &models.Attempt{
			ID:           id,
			Name:         ab.Name,
			Source:       ab.Source,
			Line:         ab.Line,
			PointCount:   ab.PointCount,
			LineLength:   ab.LineLength,
			TrackLength:  ab.TrackLength,
			MaxDeviation: ab.MaxDeviation,
			Medal:        ab.Medal,
			Scores:       scores,
			ScoredAt:     ab.ScoredAt,
		}

		if err := repo.CreateAttempt(a, ab.Track); err != nil {
			return imported, fmt.Errorf("create attempt %s: %w", ab.Name, err)
		}
		imported++
	}

	return imported, nil
}

// ExportToMarkdown renders the attempt history as a markdown table.
func ExportToMarkdown(repo Repository) ([]byte, error) {
	attempts, err := repo.ListAttempts()
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	var sb strings.Builder

	now := time.Now().UTC()
	sb.WriteString(fmt.Sprintf("# Straight Line Missions - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if len(attempts) == 0 {
		sb.WriteString("No attempts recorded.\n")
		return []byte(sb.String()), nil
	}

	levels := scoreColumns(attempts)

	sb.WriteString("| Date | Name | Length | Max deviation | Medal |")
	for _, l := range levels {
		sb.WriteString(" " + l + " |")
	}
	sb.WriteString("\n|------|------|--------|---------------|-------|")
	for range levels {
		sb.WriteString("------|")
	}
	sb.WriteString("\n")

	for _, a := range attempts {
		sb.WriteString(fmt.Sprintf("| %s | %s | %.1f km | %.1f m | %s |",
			a.ScoredAt.Format("2006-01-02 15:04"), a.Name, a.LineLength/1000, a.MaxDeviation, a.Medal))
		for _, l := range levels {
			if s, ok := a.Scores[l]; ok {
				sb.WriteString(fmt.Sprintf(" %.1f |", s))
			} else {
				sb.WriteString(" - |")
			}
		}
		sb.WriteString("\n")
	}

	return []byte(sb.String()), nil
}

// scoreColumns returns every level present, hardest first.
func scoreColumns(attempts []*models.Attempt) []string {
	order := map[string]int{"PRO": 0, "AMATEUR": 1, "NEWBIE": 2}
	seen := make(map[string]bool)
	var levels []string
	for _, a := range attempts {
		for l := range a.Scores {
			if !seen[l] {
				seen[l] = true
				levels = append(levels, l)
			}
		}
	}
	sort.Slice(levels, func(i, j int) bool {
		oi, iok := order[levels[i]]
		oj, jok := order[levels[j]]
		switch {
		case iok && jok:
			return oi < oj
		case iok != jok:
			return iok
		default:
			return levels[i] < levels[j]
		}
	})
	return levels
}
