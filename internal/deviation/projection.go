// ABOUTME: Deviation models and the plane-section projection onto a target line
// ABOUTME: Measures each point's perpendicular deviation and its position along the line

package deviation

import (
	"errors"
	"fmt"

	"github.com/harper/slm/internal/geodesy"
	"github.com/harper/slm/internal/models"
)

// ErrUndefinedProjection is returned for a point on the axis of the line's
// plane, where every direction is perpendicular.
var ErrUndefinedProjection = errors.New("projection is undefined for a pole of the target line")

// planeEpsilon is the smallest sine of the angle between the endpoint
// vectors that still defines a section plane.
const planeEpsilon = 1e-12

// Side tells where a point lies looking from the start towards the end.
type Side int

const (
	SideCenter Side = iota
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "LEFT"
	case SideRight:
		return "RIGHT"
	default:
		return "CENTER"
	}
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(b []byte) error {
	switch string(b) {
	case "LEFT":
		*s = SideLeft
	case "RIGHT":
		*s = SideRight
	case "CENTER":
		*s = SideCenter
	default:
		return fmt.Errorf("unknown side %q", b)
	}
	return nil
}

// PointProjection is one track point measured against a target line.
type PointProjection struct {
	Point models.GeoPoint `json:"point"`
	// Foot is the projected point on the line.
	Foot models.GeoPoint `json:"foot"`
	// Deviation is the distance in meters between Point and Foot.
	Deviation float64 `json:"deviation"`
	// MadeGood is the signed distance in meters from the start to Foot,
	// negative before the start.
	MadeGood float64 `json:"made_good"`
	// Fraction is MadeGood over the line length. Outside [0, 1] the foot is
	// beyond one of the line's ends.
	Fraction float64 `json:"fraction"`
	// Extrapolated is set when the foot falls outside the line.
	Extrapolated bool `json:"extrapolated"`
	Side         Side `json:"side"`
}

// Model is a strategy for measuring deviation from a target line.
type Model interface {
	Name() string
	Bind(line models.TargetLine) (Projector, error)
}

// Projector measures points against one target line.
type Projector interface {
	Line() models.TargetLine
	// Length is the geodesic length of the line in meters.
	Length() float64
	Project(p models.GeoPoint) (PointProjection, error)
}

// PlaneSection approximates the straight line by the section of the
// ellipsoid with the plane through both endpoints and the earth's centre.
// Points are projected orthogonally onto that plane and the feet are
// measured with the geodesic solver.
type PlaneSection struct {
	solver *geodesy.Solver
}

// NewPlaneSection creates the plane-section model.
func NewPlaneSection(solver *geodesy.Solver) *PlaneSection {
	return &PlaneSection{solver: solver}
}

// Name identifies the model in reports.
func (m *PlaneSection) Name() string {
	return "plane-section"
}

// Bind prepares a projector for the line.
func (m *PlaneSection) Bind(line models.TargetLine) (Projector, error) {
	if err := line.Validate(); err != nil {
		return nil, err
	}

	e := m.solver.Ellipsoid()
	vStart := e.ToVector(line.Start)
	vEnd := e.ToVector(line.End)

	normal := vEnd.Cross(vStart)
	if normal.Norm() <= planeEpsilon*vStart.Norm()*vEnd.Norm() {
		return nil, fmt.Errorf("%w: endpoints do not span a plane", models.ErrDegenerateLine)
	}

	length, err := m.solver.Distance(line.Start, line.End)
	if err != nil {
		return nil, fmt.Errorf("line length: %w", err)
	}

	return &planeProjector{
		solver: m.solver,
		line:   line,
		length: length,
		start:  vStart,
		end:    vEnd,
		normal: normal.Unit(),
	}, nil
}

type planeProjector struct {
	solver *geodesy.Solver
	line   models.TargetLine
	length float64
	start  geodesy.Vector
	end    geodesy.Vector
	normal geodesy.Vector
}

func (p *planeProjector) Line() models.TargetLine {
	return p.line
}

func (p *planeProjector) Length() float64 {
	return p.length
}

func (p *planeProjector) Project(point models.GeoPoint) (PointProjection, error) {
	e := p.solver.Ellipsoid()
	v := e.ToVector(point)

	offset := v.Dot(p.normal)
	foot := v.Sub(p.normal.Scale(offset))
	if foot.Norm() == 0 {
		return PointProjection{}, fmt.Errorf("%w: %s", ErrUndefinedProjection, point)
	}

	// h1 < 0: foot before the start; h2 > 0: foot after the end
	h1 := foot.Cross(p.start).Dot(p.normal)
	h2 := foot.Cross(p.end).Dot(p.normal)

	footPoint := e.ToPoint(foot)

	deviation, err := p.solver.Distance(footPoint, point)
	if err != nil {
		return PointProjection{}, fmt.Errorf("deviation of %s: %w", point, err)
	}
	madeGood, err := p.solver.Distance(p.line.Start, footPoint)
	if err != nil {
		return PointProjection{}, fmt.Errorf("made good of %s: %w", point, err)
	}
	if h1 < 0 {
		madeGood = -madeGood
	}

	side := SideCenter
	switch {
	case offset > 0:
		side = SideRight
	case offset < 0:
		side = SideLeft
	}

	return PointProjection{
		Point:        point,
		Foot:         footPoint,
		Deviation:    deviation,
		MadeGood:     madeGood,
		Fraction:     madeGood / p.length,
		Extrapolated: h1 < 0 || h2 > 0,
		Side:         side,
	}, nil
}
