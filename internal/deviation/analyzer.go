// ABOUTME: Projects a whole track onto a target line
// ABOUTME: Fans work out over a bounded errgroup and keeps track order

package deviation

import (
	"context"
	"fmt"

	"github.com/harper/slm/internal/models"
	"golang.org/x/sync/errgroup"
)

// chunkSize is the number of points a single worker projects at a time.
const chunkSize = 512

// Analysis is a track measured against a target line.
type Analysis struct {
	Model  string            `json:"model"`
	Line   models.TargetLine `json:"line"`
	Length float64           `json:"length"`
	// Projections are in track order.
	Projections []PointProjection `json:"projections"`
	// MaxDeviation only considers points whose foot lies on the line.
	MaxDeviation float64 `json:"max_deviation"`
}

// Analyzer projects tracks with a deviation model.
type Analyzer struct {
	model   Model
	workers int
}

// NewAnalyzer creates an analyzer. A workers value below 1 means sequential.
func NewAnalyzer(model Model, workers int) *Analyzer {
	if workers < 1 {
		workers = 1
	}
	return &Analyzer{model: model, workers: workers}
}

// Model returns the deviation model in use.
func (a *Analyzer) Model() Model {
	return a.model
}

// Analyze projects every track point onto the line.
func (a *Analyzer) Analyze(ctx context.Context, line models.TargetLine, track models.Track) (*Analysis, error) {
	projector, err := a.model.Bind(line)
	if err != nil {
		return nil, err
	}
	if err := track.Validate(); err != nil {
		return nil, err
	}

	projections := make([]PointProjection, len(track))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for lo := 0; lo < len(track); lo += chunkSize {
		hi := min(lo+chunkSize, len(track))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				p, err := projector.Project(track[i])
				if err != nil {
					return fmt.Errorf("point %d: %w", i, err)
				}
				projections[i] = p
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Analysis{
		Model:        a.model.Name(),
		Line:         line,
		Length:       projector.Length(),
		Projections:  projections,
		MaxDeviation: MaxInRangeDeviation(projections),
	}, nil
}
