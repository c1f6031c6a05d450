// ABOUTME: Evaluates a track against a target line
// ABOUTME: Produces line and track length, max deviation, medal and Burdell scores

package mission

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/harper/slm/internal/burdell"
	"github.com/harper/slm/internal/deviation"
	"github.com/harper/slm/internal/geodesy"
	"github.com/harper/slm/internal/medal"
	"github.com/harper/slm/internal/models"
)

// Report is the outcome of one evaluation.
type Report struct {
	Line models.TargetLine `json:"line"`
	// LineLength is the geodesic length of the target line in meters.
	LineLength float64 `json:"line_length"`
	// TrackLength sums the distances between consecutive track points.
	TrackLength float64 `json:"track_length"`
	Points      int     `json:"points"`
	InRange     int     `json:"in_range"`
	// MaxDeviation only considers points alongside the line.
	MaxDeviation float64                   `json:"max_deviation"`
	Medal        medal.Tier                `json:"medal"`
	Scores       map[burdell.Level]float64 `json:"scores"`
	Analysis     *deviation.Analysis       `json:"-"`
}

// Score returns the score for a level.
func (r *Report) Score(l burdell.Level) float64 {
	return r.Scores[l]
}

// Engine evaluates attempts with a fixed model.
type Engine struct {
	model    Model
	solver   *geodesy.Solver
	analyzer *deviation.Analyzer
}

// NewEngine validates the model and builds the solver and analyzer.
func NewEngine(m Model) (*Engine, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	solver, err := geodesy.NewSolver(m.Ellipsoid, m.Solver)
	if err != nil {
		return nil, err
	}
	return &Engine{
		model:    m,
		solver:   solver,
		analyzer: deviation.NewAnalyzer(deviation.NewPlaneSection(solver), m.Workers),
	}, nil
}

// Model returns the engine's model.
func (e *Engine) Model() Model {
	return e.model
}

// Solver returns the geodesic solver.
func (e *Engine) Solver() *geodesy.Solver {
	return e.solver
}

// Analyze projects the track without scoring it.
func (e *Engine) Analyze(ctx context.Context, line models.TargetLine, track models.Track) (*deviation.Analysis, error) {
	return e.analyzer.Analyze(ctx, line, track)
}

// Evaluate scores a track against a line.
func (e *Engine) Evaluate(ctx context.Context, line models.TargetLine, track models.Track) (*Report, error) {
	started := time.Now()

	analysis, err := e.analyzer.Analyze(ctx, line, track)
	if err != nil {
		return nil, err
	}

	trackLength, err := e.solver.PathLength(track)
	if err != nil {
		return nil, fmt.Errorf("track length: %w", err)
	}

	scores := make(map[burdell.Level]float64, len(burdell.Levels))
	for _, l := range burdell.Levels {
		s, err := burdell.Score(analysis, e.model.Levels[l])
		if err != nil {
			return nil, fmt.Errorf("%s score: %w", l, err)
		}
		scores[l] = s
	}

	report := &Report{
		Line:         line,
		LineLength:   analysis.Length,
		TrackLength:  trackLength,
		Points:       len(track),
		InRange:      deviation.InRangeCount(analysis.Projections),
		MaxDeviation: analysis.MaxDeviation,
		Medal:        e.model.Medals.Classify(analysis.MaxDeviation),
		Scores:       scores,
		Analysis:     analysis,
	}

	slog.Debug("evaluated attempt",
		"points", report.Points,
		"line_length", report.LineLength,
		"max_deviation", report.MaxDeviation,
		"medal", report.Medal,
		"elapsed", time.Since(started))

	return report, nil
}

// TargetLineFor completes a line from the track's endpoints when start or
// end is nil.
func TargetLineFor(track models.Track, start, end *models.GeoPoint) (models.TargetLine, error) {
	if (start == nil || end == nil) && len(track) == 0 {
		return models.TargetLine{}, models.ErrEmptyTrack
	}

	var line models.TargetLine
	if start != nil {
		line.Start = *start
	} else {
		line.Start = track.First()
	}
	if end != nil {
		line.End = *end
	} else {
		line.End = track.Last()
	}

	if err := line.Validate(); err != nil {
		return models.TargetLine{}, err
	}
	return line, nil
}
