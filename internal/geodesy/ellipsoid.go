// ABOUTME: Reference ellipsoid parameters and the cartesian point representation
// ABOUTME: Converts between geographic points and scaled 3D vectors on the ellipsoid

package geodesy

import (
	"fmt"
	"math"

	"github.com/harper/slm/internal/models"
)

// Ellipsoid is an oblate spheroid earth model.
type Ellipsoid struct {
	// A is the semi-major axis in meters.
	A float64
	// F is the flattening.
	F float64
	// B is the semi-minor axis in meters, A*(1-F).
	B float64
}

// WGS84 is the World Geodetic System 1984 ellipsoid.
var WGS84 = Ellipsoid{
	A: 6378137.0,
	F: 1 / 298.257223563,
	B: 6378137.0 * (1 - 1/298.257223563),
}

// NewEllipsoid builds an ellipsoid from its semi-major axis and inverse flattening.
func NewEllipsoid(semiMajorAxis, inverseFlattening float64) (Ellipsoid, error) {
	if !(semiMajorAxis > 0) || math.IsInf(semiMajorAxis, 0) {
		return Ellipsoid{}, fmt.Errorf("semi-major axis must be positive, got %v", semiMajorAxis)
	}
	if !(inverseFlattening > 1) || math.IsInf(inverseFlattening, 0) {
		return Ellipsoid{}, fmt.Errorf("inverse flattening must be greater than 1, got %v", inverseFlattening)
	}
	f := 1 / inverseFlattening
	return Ellipsoid{A: semiMajorAxis, F: f, B: semiMajorAxis * (1 - f)}, nil
}

// ToVector maps a point to a 3D vector pointing along the point's geodetic
// direction, scaled to the ellipse radius at that latitude.
func (e Ellipsoid) ToVector(p models.GeoPoint) Vector {
	sinLat, cosLat := math.Sincos(toRad(p.Latitude))
	sinLon, cosLon := math.Sincos(toRad(p.Longitude))

	r := e.A * e.B / math.Sqrt(e.B*e.B*cosLat*cosLat+e.A*e.A*sinLat*sinLat)

	return Vector{
		X: cosLon * cosLat * r,
		Y: sinLon * cosLat * r,
		Z: sinLat * r,
	}
}

// ToPoint is the inverse of ToVector; only the direction of v matters.
func (e Ellipsoid) ToPoint(v Vector) models.GeoPoint {
	u := v.Unit()
	return models.GeoPoint{
		Latitude:  toDeg(math.Asin(clamp(u.Z, -1, 1))),
		Longitude: toDeg(math.Atan2(u.Y, u.X)),
	}
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// normalizeBearing maps an angle in degrees to [0, 360).
func normalizeBearing(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}
