// ABOUTME: Core data models for points, target lines, tracks and scored attempts
// ABOUTME: Provides validators and constructor functions for creating new entities

package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ValidateCoordinates checks if latitude and longitude are within valid ranges.
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return fmt.Errorf("coordinates cannot be NaN")
	}
	if math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return fmt.Errorf("coordinates cannot be infinite")
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateName checks if a name is valid (non-empty, within length limits).
// Note: This validates the raw input - callers should trim whitespace themselves if needed.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("name cannot be empty or whitespace")
	}
	if len(name) > 255 {
		return fmt.Errorf("name too long (max 255 characters)")
	}
	return nil
}

// GeoPoint is a latitude/longitude pair in decimal degrees.
// North and east are positive, south and west negative.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// NewGeoPoint creates a validated point.
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	if err := ValidateCoordinates(lat, lng); err != nil {
		return GeoPoint{}, err
	}
	return GeoPoint{Latitude: lat, Longitude: lng}, nil
}

// ParseGeoPoint reads a "lat,lon" pair such as "52.606,-1.91787".
func ParseGeoPoint(s string) (GeoPoint, error) {
	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return GeoPoint{}, fmt.Errorf("invalid point %q: expected lat,lon", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("invalid latitude %q", latStr)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("invalid longitude %q", lngStr)
	}
	return NewGeoPoint(lat, lng)
}

// Equal reports whether both coordinates are identical.
func (p GeoPoint) Equal(other GeoPoint) bool {
	return p.Latitude == other.Latitude && p.Longitude == other.Longitude
}

// String formats the point as "lat,lon", the same form the CLI accepts.
func (p GeoPoint) String() string {
	return fmt.Sprintf("%.8f,%.8f", p.Latitude, p.Longitude)
}

// TargetLine is the straight route a mission attempts to follow.
type TargetLine struct {
	Start GeoPoint `json:"start" yaml:"start"`
	End   GeoPoint `json:"end" yaml:"end"`
}

// NewTargetLine creates a target line, rejecting identical endpoints.
func NewTargetLine(start, end GeoPoint) (TargetLine, error) {
	line := TargetLine{Start: start, End: end}
	if err := line.Validate(); err != nil {
		return TargetLine{}, err
	}
	return line, nil
}

// Validate checks both endpoints and that they differ.
func (l TargetLine) Validate() error {
	if err := ValidateCoordinates(l.Start.Latitude, l.Start.Longitude); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if err := ValidateCoordinates(l.End.Latitude, l.End.Longitude); err != nil {
		return fmt.Errorf("end: %w", err)
	}
	if l.Start.Equal(l.End) {
		return ErrDegenerateLine
	}
	return nil
}

// Track is a time-ordered GPS trace.
type Track []GeoPoint

// Validate checks that the track has points and that every point is in range.
func (t Track) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTrack
	}
	for i, p := range t {
		if err := ValidateCoordinates(p.Latitude, p.Longitude); err != nil {
			return fmt.Errorf("point %d: %w", i+1, err)
		}
	}
	return nil
}

// First returns the first point of the track.
func (t Track) First() GeoPoint {
	return t[0]
}

// Last returns the last point of the track.
func (t Track) Last() GeoPoint {
	return t[len(t)-1]
}

// Attempt is a scored mission kept in the history store.
type Attempt struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Source       string             `json:"source,omitempty"`
	Line         TargetLine         `json:"line"`
	PointCount   int                `json:"point_count"`
	LineLength   float64            `json:"line_length"`
	TrackLength  float64            `json:"track_length"`
	MaxDeviation float64            `json:"max_deviation"`
	Medal        string             `json:"medal"`
	Scores       map[string]float64 `json:"scores"`
	ScoredAt     time.Time          `json:"scored_at"`
}

// NewAttempt creates an attempt with generated UUID and current timestamp.
func NewAttempt(name string, line TargetLine) *Attempt {
	return &Attempt{
		ID:       uuid.New(),
		Name:     name,
		Line:     line,
		Scores:   make(map[string]float64),
		ScoredAt: time.Now(),
	}
}
