// ABOUTME: Tests for ellipsoid parameters and vector conversions
// ABOUTME: Verifies point <-> vector round trips in every quadrant

package geodesy

import (
	"math"
	"testing"
)

func TestEllipsoid_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
	}{
		{"ne", 78.29, 21.83},
		{"nee", 56.15, 145.18},
		{"nw", 47.21, -6.22},
		{"nww", 82.73, -129.34},
		{"se", -60.35, 13.53},
		{"see", -37.62, 171.82},
		{"sw", -79.83, -83.25},
		{"sww", -45.84, -179.22},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pt(tt.lat, tt.lng)
			q := WGS84.ToPoint(WGS84.ToVector(p))
			if math.Abs(p.Latitude-q.Latitude) > 1e-9 || math.Abs(p.Longitude-q.Longitude) > 1e-9 {
				t.Errorf("round trip %v -> %v", p, q)
			}
		})
	}
}

func TestEllipsoid_VectorRadius(t *testing.T) {
	equator := WGS84.ToVector(pt(0, 0))
	if math.Abs(equator.Norm()-WGS84.A) > 1e-6 {
		t.Errorf("expected equatorial radius %f, got %f", WGS84.A, equator.Norm())
	}

	pole := WGS84.ToVector(pt(90, 0))
	if math.Abs(pole.Norm()-WGS84.B) > 1e-6 {
		t.Errorf("expected polar radius %f, got %f", WGS84.B, pole.Norm())
	}
}

func TestNewEllipsoid(t *testing.T) {
	e, err := NewEllipsoid(6378137.0, 298.257223563)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(e.B-6356752.314245) > 1e-5 {
		t.Errorf("unexpected semi-minor axis %f", e.B)
	}
	if math.Abs(e.F-WGS84.F) > 1e-15 || e.A != WGS84.A {
		t.Errorf("expected WGS84, got %+v", e)
	}

	if _, err := NewEllipsoid(0, 298.257223563); err == nil {
		t.Error("expected error for zero semi-major axis")
	}
	if _, err := NewEllipsoid(6378137.0, 0.5); err == nil {
		t.Error("expected error for inverse flattening below 1")
	}
}

func TestNormalizeBearing(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{90, 90},
		{-90, 270},
		{360, 0},
		{725, 5},
		{-1e-15, 0},
	}
	for _, tt := range tests {
		got := normalizeBearing(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("normalizeBearing(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got < 0 || got >= 360 {
			t.Errorf("normalizeBearing(%v) = %v out of range", tt.in, got)
		}
	}
}
