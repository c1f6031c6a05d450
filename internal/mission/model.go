// ABOUTME: The scoring model: every constant the engine depends on
// ABOUTME: Passed explicitly so alternate calibrations never touch algorithm code

package mission

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/harper/slm/internal/burdell"
	"github.com/harper/slm/internal/geodesy"
	"github.com/harper/slm/internal/medal"
)

// Model bundles the earth model, solver settings, medal thresholds and level
// settings used for one evaluation.
type Model struct {
	Ellipsoid geodesy.Ellipsoid                  `json:"ellipsoid"`
	Solver    geodesy.Settings                   `json:"solver"`
	Medals    medal.Thresholds                   `json:"medals"`
	Levels    map[burdell.Level]burdell.Settings `json:"levels"`
	// Workers bounds the analyzer fan-out.
	Workers int `json:"workers"`
}

// DefaultModel is WGS84 with the published medal and level calibration.
func DefaultModel() Model {
	levels := make(map[burdell.Level]burdell.Settings, len(burdell.Levels))
	for _, l := range burdell.Levels {
		levels[l] = burdell.DefaultSettings(l)
	}
	return Model{
		Ellipsoid: geodesy.WGS84,
		Solver:    geodesy.DefaultSettings,
		Medals:    medal.DefaultThresholds,
		Levels:    levels,
		Workers:   runtime.NumCPU(),
	}
}

// Validate reports every problem with the model at once.
func (m Model) Validate() error {
	var errs []error
	if !(m.Ellipsoid.A > 0) || !(m.Ellipsoid.B > 0) {
		errs = append(errs, fmt.Errorf("ellipsoid: invalid axes a=%v b=%v", m.Ellipsoid.A, m.Ellipsoid.B))
	}
	if err := m.Solver.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("solver: %w", err))
	}
	if err := m.Medals.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("medals: %w", err))
	}
	for _, l := range burdell.Levels {
		s, ok := m.Levels[l]
		if !ok {
			errs = append(errs, fmt.Errorf("levels: missing %s", l))
			continue
		}
		if err := s.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("levels.%s: %w", l.Key(), err))
		}
	}
	if m.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", m.Workers))
	}
	return errors.Join(errs...)
}
