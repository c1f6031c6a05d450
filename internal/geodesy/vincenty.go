// ABOUTME: Vincenty inverse solver on an oblate ellipsoid
// ABOUTME: Returns geodesic distance and bearings between two geographic points

package geodesy

import (
	"errors"
	"fmt"
	"math"

	"github.com/harper/slm/internal/models"
)

// Settings bound the fixed-point iteration on the longitude difference.
type Settings struct {
	// MaxIterations caps the refinement loop.
	MaxIterations int
	// Tolerance is the change in lambda (radians) below which the loop stops.
	Tolerance float64
}

// DefaultSettings gives sub-millimeter accuracy on mission-sized baselines.
var DefaultSettings = Settings{
	MaxIterations: 100,
	Tolerance:     1e-12,
}

// Validate checks the settings are usable.
func (s Settings) Validate() error {
	if s.MaxIterations <= 0 {
		return fmt.Errorf("max iterations must be positive, got %d", s.MaxIterations)
	}
	if !(s.Tolerance > 0) {
		return fmt.Errorf("tolerance must be positive, got %v", s.Tolerance)
	}
	return nil
}

// Solution is the result of the inverse problem.
type Solution struct {
	// Distance along the geodesic in meters.
	Distance float64 `json:"distance"`
	// InitialBearing at the first point, degrees in [0, 360).
	InitialBearing float64 `json:"initial_bearing"`
	// FinalBearing at the second point, degrees in [0, 360).
	FinalBearing float64 `json:"final_bearing"`
	// Iterations used before convergence.
	Iterations int `json:"iterations"`
}

// Solver solves the geodesic inverse problem on a fixed ellipsoid.
type Solver struct {
	ellipsoid Ellipsoid
	settings  Settings
}

// NewSolver creates a solver for the given ellipsoid.
func NewSolver(e Ellipsoid, s Settings) (*Solver, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if !(e.A > 0) || !(e.B > 0) || e.B > e.A {
		return nil, fmt.Errorf("invalid ellipsoid: a=%v b=%v", e.A, e.B)
	}
	return &Solver{ellipsoid: e, settings: s}, nil
}

// Ellipsoid returns the solver's earth model.
func (s *Solver) Ellipsoid() Ellipsoid {
	return s.ellipsoid
}

// SolveInverse computes distance and bearings from p1 to p2 using
// Vincenty's formulae.
//
// Identical points yield a zero Solution with ErrCoincidentPoints since no
// bearing exists. A loop that does not settle yields ErrNonConvergent.
func (s *Solver) SolveInverse(p1, p2 models.GeoPoint) (Solution, error) {
	if p1.Equal(p2) {
		return Solution{}, ErrCoincidentPoints
	}

	a, f, b := s.ellipsoid.A, s.ellipsoid.F, s.ellipsoid.B

	bigL := toRad(p2.Longitude - p1.Longitude)

	sinU1, cosU1 := math.Sincos(math.Atan((1 - f) * math.Tan(toRad(p1.Latitude))))
	sinU2, cosU2 := math.Sincos(math.Atan((1 - f) * math.Tan(toRad(p2.Latitude))))

	lambda := bigL

	for i := 1; i <= s.settings.MaxIterations; i++ {
		sinLambda, cosLambda := math.Sincos(lambda)

		t1 := cosU2 * sinLambda
		t2 := cosU1*sinU2 - sinU1*cosU2*cosLambda
		sinSigma := math.Sqrt(t1*t1 + t2*t2)

		cosSigma := sinU1*sinU2 + cosU1*cosU2*cosLambda

		if sinSigma == 0 {
			if cosSigma > 0 {
				// same place, e.g. a pole given with two longitudes
				return Solution{Iterations: i}, ErrCoincidentPoints
			}
			return Solution{Iterations: i}, fmt.Errorf("%w: antipodal points %s and %s", ErrNonConvergent, p1, p2)
		}

		sigma := math.Atan2(sinSigma, cosSigma)

		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cos2Alpha := 1 - sinAlpha*sinAlpha

		// equatorial line: cos2Alpha is zero
		cos2SigmaM := 0.0
		if cos2Alpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cos2Alpha
		}

		c := f / 16 * cos2Alpha * (4 + f*(4-3*cos2Alpha))

		prev := lambda
		lambda = bigL + (1-c)*f*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

		if math.Abs(lambda-prev) > s.settings.Tolerance {
			continue
		}

		uSq := cos2Alpha * (a*a - b*b) / (b * b)
		bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
		bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))

		deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*
			(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
				bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

		alpha1 := math.Atan2(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda)
		alpha2 := math.Atan2(cosU1*sinLambda, -sinU1*cosU2+cosU1*sinU2*cosLambda)

		return Solution{
			Distance:       b * bigA * (sigma - deltaSigma),
			InitialBearing: normalizeBearing(toDeg(alpha1)),
			FinalBearing:   normalizeBearing(toDeg(alpha2)),
			Iterations:     i,
		}, nil
	}

	return Solution{Iterations: s.settings.MaxIterations}, fmt.Errorf("%w: %s to %s after %d iterations",
		ErrNonConvergent, p1, p2, s.settings.MaxIterations)
}

// Distance returns the geodesic distance in meters. Coincident points are
// a distance of zero, not an error.
func (s *Solver) Distance(p1, p2 models.GeoPoint) (float64, error) {
	sol, err := s.SolveInverse(p1, p2)
	if err != nil {
		if errors.Is(err, ErrCoincidentPoints) {
			return 0, nil
		}
		return 0, err
	}
	return sol.Distance, nil
}

// PathLength sums the geodesic distances between consecutive points.
func (s *Solver) PathLength(points []models.GeoPoint) (float64, error) {
	var total float64
	for i := 1; i < len(points); i++ {
		d, err := s.Distance(points[i-1], points[i])
		if err != nil {
			return 0, fmt.Errorf("segment %d: %w", i, err)
		}
		total += d
	}
	return total, nil
}
